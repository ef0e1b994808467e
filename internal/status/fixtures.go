package status

// TestSteps returns the deterministic snapshots used by the simulated
// transition sequence: outage of one component, then a second, then full
// recovery. The first step (live baseline) is fetched by the caller.
func TestSteps() [][]Component {
	return [][]Component{
		{
			{ID: "bankid", Name: "BankID", Status: "major_outage"},
			{ID: "digital-id-card", Name: "Digital ID-card", Status: StatusOperational},
			{ID: "id-check", Name: "ID check", Status: StatusOperational},
		},
		{
			{ID: "bankid", Name: "BankID", Status: "major_outage"},
			{ID: "digital-id-card", Name: "Digital ID-card", Status: "major_outage"},
			{ID: "id-check", Name: "ID check", Status: StatusOperational},
		},
		{
			{ID: "bankid", Name: "BankID", Status: StatusOperational},
			{ID: "digital-id-card", Name: "Digital ID-card", Status: StatusOperational},
			{ID: "id-check", Name: "ID check", Status: StatusOperational},
		},
	}
}
