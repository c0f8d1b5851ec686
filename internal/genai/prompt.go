package genai

import (
	"encoding/json"
	"fmt"

	"activsante/internal/aiservice"
)

// DefaultDisclaimer is appended when the model forgets to emit one.
const DefaultDisclaimer = "🩺 Ces conseils ne remplacent pas un avis médical. Ils doivent être validés par un professionnel de santé avant application."

/* =================================================================================
						PROMPT ENGINEERING & GUARDRAILS
=================================================================================*/

// SystemPrompt sets the persona: an exercise-medicine expert answering in
// French with an empathetic, professional tone.
const SystemPrompt = `Vous êtes un expert en santé et activité physique, chargé de générer une prescription personnalisée basée sur les réponses d'un patient à un questionnaire médical.

RÈGLES:
- Répondez exclusivement en français, avec un ton empathique et professionnel.
- Utilisez des emojis pour illustrer les conseils.
- Adaptez les recommandations aux pathologies, activités et motivations du patient.
- Ignorez les champs absents sauf s'ils sont pertinents.
- Restez strictement dans le domaine de la santé et de l'activité physique.

FORMAT DES BLOCS DU PROGRAMME (endurance, renforcement, etirements, equilibre):
chaque bloc est un texte multi-lignes, une ligne par champ, au format:
• Fréquence: ...
• Intensité: ...
• Temps: ...
• Type: ...
• Exemples guidés: ...

FORMAT DE LA PLANIFICATION: un tableau texte avec des colonnes séparées par '|':
Jour | Séance | Durée | Détails
Lundi | Cardio | 30min | Marche rapide
(une ligne par jour planifié)`

const userPromptTemplate = `### Données du Patient (JSON de soumission) :
%s

### Instructions :
- Analysez les réponses pour personnaliser la sortie.
- Fournissez dix conseils pratiques, cinq objectifs, les bénéfices attendus,
  un programme personnalisé par dimension d'entraînement, une planification
  hebdomadaire, les orientations vers des professionnels, et les
  contre-indications éventuelles.
- Respectez strictement le schéma de sortie structuré.`

// BuildPrompt serializes the submission payload into the user prompt.
func BuildPrompt(payload aiservice.SubmissionPayload) (string, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(userPromptTemplate, string(data)), nil
}

/* =================================================================================
							RESPONSE SCHEMA
=================================================================================*/

func stringArray(description string) *Schema {
	return &Schema{
		Type:        "ARRAY",
		Description: description,
		Items:       &Schema{Type: "STRING"},
	}
}

// PrescriptionSchema tells Gemini the exact shape of the recommendation
// response the normalization pipeline expects.
var PrescriptionSchema = &Schema{
	Type: "OBJECT",
	Properties: map[string]*Schema{
		"conseils":  stringArray("Dix conseils pratiques personnalisés, avec emojis."),
		"objectifs": stringArray("Cinq objectifs personnalisés pour le patient."),
		"benefices": stringArray("Bénéfices attendus personnalisés."),
		"programme_perso": {
			Type:        "OBJECT",
			Description: "Programme par dimension d'entraînement, blocs multi-lignes labellisés.",
			Properties: map[string]*Schema{
				"endurance":    {Type: "STRING", Description: "Détails sur l'endurance."},
				"renforcement": {Type: "STRING", Description: "Détails sur le renforcement musculaire."},
				"etirements":   {Type: "STRING", Description: "Détails sur les étirements."},
				"equilibre":    {Type: "STRING", Description: "Détails sur l'équilibre, si nécessaire."},
			},
			Required: []string{"endurance", "renforcement", "etirements"},
		},
		"planification":     {Type: "STRING", Description: "Tableau texte 'Jour | Séance | Durée | Détails', une ligne par jour."},
		"orientation":       stringArray("Orientations vers des professionnels de santé."),
		"contraindications": stringArray("Contre-indications liées aux réponses du patient."),
		"medicaments":       stringArray("Points d'attention liés aux médicaments déclarés."),
		"precautions":       stringArray("Précautions à respecter pendant l'exercice."),
		"disclaimer":        {Type: "STRING", Description: "Avertissement médical."},
	},
	Required: []string{"conseils", "objectifs", "benefices", "programme_perso", "planification", "orientation", "contraindications"},
}
