package reco

// DefaultRecommendation is the single canonical fallback payload shown when the
// generation service fails. Every call site must use this payload so the user
// experience stays consistent; it is well-formed enough to round-trip through
// SplitRecommendation with populated blocks and planification rows.
func DefaultRecommendation() RecommendationResponse {
	return RecommendationResponse{
		Conseils: []string{
			"🚶 Commencer par des activités douces comme la marche 30 min/jour",
			"💧 Maintenir une hydratation adéquate (1.5-2L d'eau par jour)",
			"📈 Augmenter progressivement l'intensité sur 4 semaines",
			"🔄 Maintenir une régularité dans la pratique (minimum 3x/semaine)",
			"🍎 Adapter l'alimentation à l'activité physique",
			"😴 Respecter les temps de récupération entre les séances",
			"📝 Tenir un journal de progression",
			"👥 Envisager des activités en groupe pour la motivation",
			"🎯 Se fixer des objectifs réalistes et progressifs",
			"🩺 Consulter régulièrement pour un suivi médical",
		},
		Objectifs: []string{
			"Améliorer la condition cardiovasculaire en 3 mois",
			"Renforcer la masse musculaire de façon progressive",
			"Réduire le stress quotidien par l'activité physique",
			"Améliorer la qualité de sommeil",
			"Maintenir un poids santé sur le long terme",
		},
		Benefices: []string{
			"Réduction du risque cardiovasculaire de 30%",
			"Amélioration de la qualité de sommeil",
			"Augmentation de l'énergie quotidienne",
			"Meilleure régulation de la glycémie",
			"Renforcement du système immunitaire",
			"Amélioration de l'humeur et réduction de l'anxiété",
			"Augmentation de la densité osseuse",
		},
		ProgrammePerso: ProgrammePerso{
			Endurance:    "• Fréquence: 3x/semaine\n• Intensité: modérée\n• Temps: 30-45 min\n• Type: marche rapide, vélo ou natation\n• Exemples guidés: marche soutenue en extérieur",
			Renforcement: "• Fréquence: 2x/semaine\n• Intensité: légère à modérée\n• Temps: 20-30 min\n• Type: tous les groupes musculaires\n• Exemples guidés: squats, pompes contre un mur, gainage",
			Etirements:   "• Fréquence: après chaque séance\n• Intensité: douce\n• Temps: 10-15 min\n• Type: étirements statiques\n• Exemples guidés: étirement des ischio-jambiers et du dos",
			Equilibre:    "• Fréquence: 2x/semaine\n• Intensité: douce\n• Temps: 10 min\n• Type: exercices d'équilibre si nécessaire\n• Exemples guidés: appui unipodal, marche talon-pointe",
		},
		Planification: "Jour | Séance | Durée | Détails\n" +
			"Lundi | Cardio léger | 30min | Marche rapide ou vélo\n" +
			"Mercredi | Renforcement | 30min | Circuit tous groupes musculaires\n" +
			"Vendredi | Activité mixte | 45min | Cardio + renforcement léger\n" +
			"Weekend | Activité récréative | libre | Sortie en famille, jardinage",
		Orientation: []string{
			"Consultation avec un kinésithérapeute pour programme personnalisé",
			"Suivi médical régulier tous les 3 mois",
			"Possibilité de rejoindre un club sportif adapté",
		},
		Contraindications: []string{
			"Arrêter toute activité en cas de douleur thoracique ou d'essoufflement inhabituel",
		},
		Disclaimer: "🩺 Ces conseils ne remplacent pas un avis médical. Ils doivent être validés par un professionnel de santé avant application.",
	}
}
