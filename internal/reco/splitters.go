package reco

import "strings"

// bulletMarkers are stripped once from the start of each line, together with a
// single following space.
var bulletMarkers = []string{"• ", "- ", "– ", "— ", "•", "-", "–", "—"}

func stripBullet(line string) string {
	for _, m := range bulletMarkers {
		if strings.HasPrefix(line, m) {
			return line[len(m):]
		}
	}
	return line
}

// normalizeLines splits the block into trimmed lines with bullet markers removed.
func normalizeLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		lines = append(lines, strings.TrimSpace(stripBullet(strings.TrimSpace(l))))
	}
	return lines
}

// findLabeled scans lines for the first one starting with label (case-insensitive)
// and returns everything after the first colon, trimmed. Colons inside the value
// are preserved. ok reports whether a matching line was found at all.
func findLabeled(lines []string, label string) (value string, ok bool) {
	lower := strings.ToLower(label)
	for _, l := range lines {
		if strings.HasPrefix(strings.ToLower(l), lower) {
			parts := strings.Split(l, ":")
			return strings.TrimSpace(strings.Join(parts[1:], ":")), true
		}
	}
	return "", false
}

// ParseProgrammeBlock extracts the five labeled sub-fields from a free-text
// training block. Unmatched labels stay empty; empty input yields the zero block.
// Label matching is order-independent and only the first matching line counts.
func ParseProgrammeBlock(text string) ProgrammeBlock {
	var out ProgrammeBlock
	if text == "" {
		return out
	}

	lines := normalizeLines(text)

	out.Frequence, _ = findLabeled(lines, "Fréquence")
	out.Intensite, _ = findLabeled(lines, "Intensité")
	out.Temps, _ = findLabeled(lines, "Temps")
	out.Type, _ = findLabeled(lines, "Type")

	// "Exemples guidés" wins over plain "Exemples" even when its value is empty.
	if v, ok := findLabeled(lines, "Exemples guidés"); ok {
		out.Exemples = v
	} else {
		out.Exemples, _ = findLabeled(lines, "Exemples")
	}
	return out
}

// ParsePlanificationTable extracts the rows of the pipe-delimited weekly plan.
// A first line containing "jour |" (case-insensitive) is treated as a header and
// skipped. Lines with fewer than 4 cells are dropped; extra cells are ignored.
func ParsePlanificationTable(planif string) []PlanifRow {
	rows := []PlanifRow{}
	if planif == "" {
		return rows
	}

	var lines []string
	for _, l := range strings.Split(planif, "\n") {
		if t := strings.TrimSpace(l); t != "" {
			lines = append(lines, t)
		}
	}
	if len(lines) == 0 {
		return rows
	}

	start := 0
	if strings.Contains(strings.ToLower(lines[0]), "jour |") {
		start = 1
	}

	for _, line := range lines[start:] {
		cells := strings.Split(line, "|")
		if len(cells) < 4 {
			continue
		}
		for i := range cells {
			cells[i] = strings.TrimSpace(cells[i])
		}
		rows = append(rows, PlanifRow{
			Jour:    cells[0],
			Seance:  cells[1],
			Duree:   cells[2],
			Details: cells[3],
		})
	}
	return rows
}

// orEmpty keeps VM sequence fields present-but-empty instead of nil.
func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// SplitRecommendation derives the two display-ready view models from a raw
// response. Pure and total: a response with every optional field absent yields
// empty blocks and empty sequences, never an error.
func SplitRecommendation(data RecommendationResponse) (PrescriptionVM, ConseilsVM) {
	programme := ProgrammeVM{
		Endurance:    ParseProgrammeBlock(data.ProgrammePerso.Endurance),
		Renforcement: ParseProgrammeBlock(data.ProgrammePerso.Renforcement),
		Etirements:   ParseProgrammeBlock(data.ProgrammePerso.Etirements),
		Equilibre:    ParseProgrammeBlock(data.ProgrammePerso.Equilibre),
	}

	prescription := PrescriptionVM{
		Programme:         programme,
		Planification:     ParsePlanificationTable(data.Planification),
		Objectifs:         orEmpty(data.Objectifs),
		Contraindications: orEmpty(data.Contraindications),
		Precautions:       orEmpty(data.Precautions),
		Orientation:       orEmpty(data.Orientation),
	}

	conseils := ConseilsVM{
		Conseils:  orEmpty(data.Conseils),
		Benefices: orEmpty(data.Benefices),
	}

	return prescription, conseils
}
