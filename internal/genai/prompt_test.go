package genai

import (
	"testing"

	"activsante/internal/aiservice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPrompt_EmbedsSubmissionData(t *testing.T) {
	payload := aiservice.SubmissionPayload{
		SubmissionID: "sub-42",
		SecureKey:    "key",
		AnswersCount: 1,
		Answers: map[string]aiservice.AnswerDetail{
			"7": {QuestionID: 7, QuestionText: "Fumez-vous ?", QuestionType: "boolean", Answer: "non"},
		},
	}

	prompt, err := BuildPrompt(payload)
	require.NoError(t, err)

	assert.Contains(t, prompt, "sub-42")
	assert.Contains(t, prompt, "Fumez-vous ?")
	assert.Contains(t, prompt, "Données du Patient")
}

func TestPrescriptionSchema_CoversNormalizerInputs(t *testing.T) {
	for _, field := range []string{"conseils", "objectifs", "benefices", "programme_perso", "planification", "orientation", "contraindications"} {
		assert.Contains(t, PrescriptionSchema.Properties, field)
		assert.Contains(t, PrescriptionSchema.Required, field)
	}

	programme := PrescriptionSchema.Properties["programme_perso"]
	require.NotNil(t, programme)
	assert.Contains(t, programme.Properties, "equilibre")
	// equilibre stays optional; the normalizer tolerates its absence.
	assert.NotContains(t, programme.Required, "equilibre")
}
