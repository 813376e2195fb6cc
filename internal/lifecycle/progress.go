package lifecycle

// Stage is one step of the progress tracker shown on a complaint.
type Stage struct {
	Status    Status `json:"status"`
	Label     string `json:"label"`
	Completed bool   `json:"completed"`
	Current   bool   `json:"current"`
}

var stages = []struct {
	status Status
	label  string
}{
	{StatusOpen, "Filed"},
	{StatusAssigned, "Assigned"},
	{StatusInProgress, "In Progress"},
	{StatusResolved, "Resolved"},
}

// Progress renders the tracker for a complaint currently in status current.
// A stage is completed once the rank has moved past it; closed completes every stage.
func Progress(current Status) []Stage {
	rank := current.Rank()
	out := make([]Stage, len(stages))
	for i, st := range stages {
		out[i] = Stage{
			Status:    st.status,
			Label:     st.label,
			Completed: rank > i,
			Current:   rank == i,
		}
	}
	return out
}
