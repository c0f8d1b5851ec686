/*
Package reco implements the recommendation normalization pipeline: it turns the
loosely-structured response of the generation service into the two view models
consumed by the prescription and conseils pages, and holds the latest response
in a reactive store.
*/
package reco

/* =================================================================================
							RAW RESPONSE (semi-trusted input)
=================================================================================*/

// ProgrammePerso carries the four training dimensions as semi-structured free text.
type ProgrammePerso struct {
	Endurance    string `json:"endurance"`
	Renforcement string `json:"renforcement"`
	Etirements   string `json:"etirements"`
	Equilibre    string `json:"equilibre,omitempty"`
}

// RecommendationResponse is the payload returned by the generation service.
// Any field may be absent; absence is never an error.
type RecommendationResponse struct {
	Conseils          []string       `json:"conseils"`
	Objectifs         []string       `json:"objectifs"`
	Benefices         []string       `json:"benefices"`
	ProgrammePerso    ProgrammePerso `json:"programme_perso"`
	Planification     string         `json:"planification"` // "Jour | Séance | Durée | Détails\n..."
	Orientation       []string       `json:"orientation"`
	Contraindications []string       `json:"contraindications"`
	Medicaments       []string       `json:"medicaments,omitempty"`
	Precautions       []string       `json:"precautions,omitempty"`
	Disclaimer        string         `json:"disclaimer,omitempty"`
}

/* =================================================================================
								VIEW MODELS
=================================================================================*/

// ProgrammeBlock holds the labeled sub-fields of one training dimension.
// A block parsed from empty text has every field empty.
type ProgrammeBlock struct {
	Frequence string `json:"frequence,omitempty"`
	Intensite string `json:"intensite,omitempty"`
	Temps     string `json:"temps,omitempty"`
	Type      string `json:"type,omitempty"`
	Exemples  string `json:"exemples,omitempty"`
}

// ProgrammeVM groups the four parsed blocks.
type ProgrammeVM struct {
	Endurance    ProgrammeBlock `json:"endurance"`
	Renforcement ProgrammeBlock `json:"renforcement"`
	Etirements   ProgrammeBlock `json:"etirements"`
	Equilibre    ProgrammeBlock `json:"equilibre"`
}

// PlanifRow is one row of the weekly plan table.
type PlanifRow struct {
	Jour    string `json:"jour"`
	Seance  string `json:"seance"`
	Duree   string `json:"duree"`
	Details string `json:"details"`
}

// PrescriptionVM feeds the prescription page.
type PrescriptionVM struct {
	Programme         ProgrammeVM `json:"programme"`
	Planification     []PlanifRow `json:"planification"`
	Objectifs         []string    `json:"objectifs"`
	Contraindications []string    `json:"contraindications"`
	Precautions       []string    `json:"precautions"`
	Orientation       []string    `json:"orientation"`
}

// ConseilsVM feeds the conseils page.
type ConseilsVM struct {
	Conseils  []string `json:"conseils"`
	Benefices []string `json:"benefices"`
}
