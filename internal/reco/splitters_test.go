package reco

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/* =================================================================================
								BLOCK PARSER
=================================================================================*/

func TestParseProgrammeBlock_Empty(t *testing.T) {
	assert.Equal(t, ProgrammeBlock{}, ParseProgrammeBlock(""))
}

func TestParseProgrammeBlock_BulletedLines(t *testing.T) {
	block := ParseProgrammeBlock("• Fréquence: 3x/semaine\n• Intensité: modérée\n• Temps: 30 min")

	assert.Equal(t, "3x/semaine", block.Frequence)
	assert.Equal(t, "modérée", block.Intensite)
	assert.Equal(t, "30 min", block.Temps)
	assert.Empty(t, block.Type)
	assert.Empty(t, block.Exemples)
}

func TestParseProgrammeBlock_BulletVariants(t *testing.T) {
	for _, marker := range []string{"•", "-", "–", "—"} {
		block := ParseProgrammeBlock(marker + " Temps: 20 min")
		assert.Equal(t, "20 min", block.Temps, "marker %q", marker)
	}
}

func TestParseProgrammeBlock_CaseInsensitiveLabels(t *testing.T) {
	block := ParseProgrammeBlock("fréquence: 2x/semaine\nTYPE: cardio")

	assert.Equal(t, "2x/semaine", block.Frequence)
	assert.Equal(t, "cardio", block.Type)
}

func TestParseProgrammeBlock_FirstMatchingLineWins(t *testing.T) {
	block := ParseProgrammeBlock("Temps: 30 min\nTemps: 45 min")
	assert.Equal(t, "30 min", block.Temps)
}

func TestParseProgrammeBlock_ColonsInValuePreserved(t *testing.T) {
	block := ParseProgrammeBlock("Intensité: modérée: 60-70% FCM")
	assert.Equal(t, "modérée: 60-70% FCM", block.Intensite)
}

func TestParseProgrammeBlock_ExemplesGuidesPriority(t *testing.T) {
	block := ParseProgrammeBlock("Exemples: marche\nExemples guidés: vélo en salle")
	assert.Equal(t, "vélo en salle", block.Exemples)
}

func TestParseProgrammeBlock_ExemplesFallback(t *testing.T) {
	block := ParseProgrammeBlock("Exemples: marche nordique")
	assert.Equal(t, "marche nordique", block.Exemples)
}

func TestParseProgrammeBlock_MissingColonYieldsEmptyValue(t *testing.T) {
	block := ParseProgrammeBlock("Fréquence 3x par semaine")
	assert.Empty(t, block.Frequence)
}

func TestParseProgrammeBlock_OrderIndependent(t *testing.T) {
	block := ParseProgrammeBlock("Type: natation\nFréquence: 1x/semaine")

	assert.Equal(t, "1x/semaine", block.Frequence)
	assert.Equal(t, "natation", block.Type)
}

/* =================================================================================
								TABLE PARSER
=================================================================================*/

func TestParsePlanificationTable_Empty(t *testing.T) {
	assert.Empty(t, ParsePlanificationTable(""))
}

func TestParsePlanificationTable_HeaderAndMalformedRowSkipped(t *testing.T) {
	rows := ParsePlanificationTable("Jour | Séance | Durée | Détails\nLundi | Cardio | 30min | Marche rapide\nMardi | Repos |")

	require.Len(t, rows, 1)
	assert.Equal(t, PlanifRow{Jour: "Lundi", Seance: "Cardio", Duree: "30min", Details: "Marche rapide"}, rows[0])
}

func TestParsePlanificationTable_NoHeader(t *testing.T) {
	rows := ParsePlanificationTable("Lundi | Cardio | 30min | Marche")
	require.Len(t, rows, 1)
	assert.Equal(t, "Lundi", rows[0].Jour)
}

func TestParsePlanificationTable_HeaderDetectionIsCaseInsensitive(t *testing.T) {
	rows := ParsePlanificationTable("JOUR | SÉANCE | DURÉE | DÉTAILS\nMardi | Vélo | 45min | Sortie route")

	require.Len(t, rows, 1)
	assert.Equal(t, "Mardi", rows[0].Jour)
}

func TestParsePlanificationTable_ExtraCellsIgnored(t *testing.T) {
	rows := ParsePlanificationTable("Lundi | Cardio | 30min | Marche | note interne")

	require.Len(t, rows, 1)
	assert.Equal(t, "Marche", rows[0].Details)
}

func TestParsePlanificationTable_BlankLinesSkipped(t *testing.T) {
	rows := ParsePlanificationTable("\n\nLundi | Cardio | 30min | Marche\n\n")
	assert.Len(t, rows, 1)
}

/* =================================================================================
								NORMALIZER
=================================================================================*/

func TestSplitRecommendation_TotalOnEmptyResponse(t *testing.T) {
	prescription, conseils := SplitRecommendation(RecommendationResponse{})

	assert.Equal(t, ProgrammeBlock{}, prescription.Programme.Endurance)
	assert.Equal(t, ProgrammeBlock{}, prescription.Programme.Renforcement)
	assert.Equal(t, ProgrammeBlock{}, prescription.Programme.Etirements)
	assert.Equal(t, ProgrammeBlock{}, prescription.Programme.Equilibre)

	// Sequence fields are always present, possibly empty, never nil.
	assert.NotNil(t, prescription.Planification)
	assert.NotNil(t, prescription.Objectifs)
	assert.NotNil(t, prescription.Contraindications)
	assert.NotNil(t, prescription.Precautions)
	assert.NotNil(t, prescription.Orientation)
	assert.NotNil(t, conseils.Conseils)
	assert.NotNil(t, conseils.Benefices)
}

func TestSplitRecommendation_AbsentEquilibre(t *testing.T) {
	data := RecommendationResponse{
		ProgrammePerso: ProgrammePerso{
			Endurance:    "• Fréquence: 3x/semaine\n• Intensité: modérée\n• Temps: 30 min",
			Renforcement: "• Fréquence: 2x/semaine",
			Etirements:   "• Temps: 10 min",
		},
	}

	prescription, _ := SplitRecommendation(data)

	assert.Equal(t, ProgrammeBlock{}, prescription.Programme.Equilibre)
	assert.Equal(t, "3x/semaine", prescription.Programme.Endurance.Frequence)
	assert.Equal(t, "2x/semaine", prescription.Programme.Renforcement.Frequence)
	assert.Equal(t, "10 min", prescription.Programme.Etirements.Temps)
}

func TestSplitRecommendation_PassThroughFields(t *testing.T) {
	data := RecommendationResponse{
		Conseils:          []string{"boire de l'eau"},
		Objectifs:         []string{"3 mois"},
		Benefices:         []string{"sommeil"},
		Orientation:       []string{"kinésithérapeute"},
		Contraindications: []string{"douleur thoracique"},
		Precautions:       []string{"échauffement"},
	}

	prescription, conseils := SplitRecommendation(data)

	assert.Equal(t, data.Objectifs, prescription.Objectifs)
	assert.Equal(t, data.Contraindications, prescription.Contraindications)
	assert.Equal(t, data.Precautions, prescription.Precautions)
	assert.Equal(t, data.Orientation, prescription.Orientation)
	assert.Equal(t, data.Conseils, conseils.Conseils)
	assert.Equal(t, data.Benefices, conseils.Benefices)
}

func TestSplitRecommendation_Idempotent(t *testing.T) {
	data := DefaultRecommendation()

	p1, c1 := SplitRecommendation(data)
	p2, c2 := SplitRecommendation(data)

	assert.Equal(t, p1, p2)
	assert.Equal(t, c1, c2)
}

func TestDefaultRecommendation_RoundTripsThroughNormalizer(t *testing.T) {
	prescription, conseils := SplitRecommendation(DefaultRecommendation())

	assert.NotEmpty(t, conseils.Conseils)
	assert.NotEmpty(t, prescription.Objectifs)
	assert.NotEmpty(t, prescription.Planification)
	assert.NotEmpty(t, prescription.Programme.Endurance.Frequence)
	assert.NotEmpty(t, prescription.Programme.Equilibre.Exemples)
}
