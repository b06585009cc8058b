package domain

// RouteOutcome records a single creation request. Err is nil on success.
type RouteOutcome struct {
	TableID RouteTableID
	Route   Route
	Err     error
}

type ApplyResult struct {
	// Outcomes is ordered by table, then by route, matching input order.
	Outcomes  []RouteOutcome
	Succeeded int
}

func (r ApplyResult) Attempted() int {
	return len(r.Outcomes)
}

func (r ApplyResult) Failures() []RouteOutcome {
	var failed []RouteOutcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}

type HostFailure struct {
	Host HostRecord
	Err  error
}

type AuditReport struct {
	Examined int
	Matches  []MatchResult
	Failures []HostFailure
}

func (r AuditReport) Resolved() int {
	return r.Examined - len(r.Failures)
}
