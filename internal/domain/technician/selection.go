package technician

import "sort"

// Candidate pairs a technician with its current workload.
type Candidate struct {
	Technician *Technician
	Workload   int64
}

// RankByWorkload returns the active technicians serving centerID ordered by
// ascending workload, then name, then id.
func RankByWorkload(techs []*Technician, workload map[string]int64, centerID *string) []Candidate {
	out := make([]Candidate, 0, len(techs))
	for _, t := range techs {
		if t == nil || !t.IsActive() || !t.ServesCenter(centerID) {
			continue
		}
		out = append(out, Candidate{Technician: t, Workload: workload[t.ID()]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Workload != b.Workload {
			return a.Workload < b.Workload
		}
		if a.Technician.Name() != b.Technician.Name() {
			return a.Technician.Name() < b.Technician.Name()
		}
		return a.Technician.ID() < b.Technician.ID()
	})
	return out
}

// SelectLeastLoaded picks the first ranked candidate. ok is false when nobody is available.
func SelectLeastLoaded(techs []*Technician, workload map[string]int64, centerID *string) (*Technician, bool) {
	ranked := RankByWorkload(techs, workload, centerID)
	if len(ranked) == 0 {
		return nil, false
	}
	return ranked[0].Technician, true
}
