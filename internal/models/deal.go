package models

// Override request states stored in override_request_status.
const (
	OverrideNone     = "none"
	OverridePending  = "pending"
	OverrideApproved = "approved"
	OverrideDenied   = "denied"
)

// Legacy closing gate values of rld_override_approval.
const (
	GateApproved             = "Approved"
	GateApprovedWithOverride = "Approved with Override"
)

// AutoApprovedActor tags approvals granted by the reconciler.
const AutoApprovedActor = "Auto-approved (Compliant)"

// CRM property names.
const (
	PropCloseDate         = "closedate"
	PropRLD               = "requested_launch_date"
	PropIsClosed          = "is_closed"
	PropPipeline          = "pipeline"
	PropDealName          = "dealname"
	PropSeatCount         = "seat_count___final"
	PropComplianceStatus  = "compliance_status"
	PropOverrideStatus    = "override_request_status"
	PropRequestedBy       = "override_requested_by"
	PropRequestDate       = "override_request_date"
	PropApprovedBy        = "override_approved_by"
	PropApprovalDate      = "override_approval_date"
	PropApprovedCloseDate = "approved_close_date"
	PropApprovedRLD       = "approved_rld"
	PropOverrideGate      = "rld_override_approval"
)

// DealProperties is the default key set fetched for a deal card.
var DealProperties = []string{
	PropSeatCount,
	PropCloseDate,
	PropRLD,
	PropIsClosed,
	PropDealName,
	PropPipeline,
	PropComplianceStatus,
	PropOverrideStatus,
	PropRequestedBy,
	PropRequestDate,
	PropApprovedBy,
	PropApprovalDate,
	PropApprovedCloseDate,
	PropApprovedRLD,
	PropOverrideGate,
}

// Deal is the CRM deal as seen by the compliance workflow. Dates are kept in
// the raw CRM representation so that snapshots compare byte for byte.
type Deal struct {
	ID                string `json:"id"`
	Name              string `json:"dealname"`
	SeatCount         string `json:"seat_count"`
	CloseDate         string `json:"closedate"`
	RLD               string `json:"requested_launch_date"`
	IsClosed          bool   `json:"is_closed"`
	Pipeline          string `json:"pipeline"`
	ComplianceStatus  string `json:"compliance_status"`
	OverrideStatus    string `json:"override_request_status"`
	RequestedBy       string `json:"override_requested_by"`
	RequestDate       string `json:"override_request_date"`
	ApprovedBy        string `json:"override_approved_by"`
	ApprovalDate      string `json:"override_approval_date"`
	ApprovedCloseDate string `json:"approved_close_date"`
	ApprovedRLD       string `json:"approved_rld"`
	OverrideGate      string `json:"rld_override_approval"`
}

// DealFromProperties builds a Deal from a CRM property map.
func DealFromProperties(id string, props map[string]string) Deal {
	return Deal{
		ID:                id,
		Name:              props[PropDealName],
		SeatCount:         props[PropSeatCount],
		CloseDate:         props[PropCloseDate],
		RLD:               props[PropRLD],
		IsClosed:          props[PropIsClosed] == "true",
		Pipeline:          props[PropPipeline],
		ComplianceStatus:  props[PropComplianceStatus],
		OverrideStatus:    props[PropOverrideStatus],
		RequestedBy:       props[PropRequestedBy],
		RequestDate:       props[PropRequestDate],
		ApprovedBy:        props[PropApprovedBy],
		ApprovalDate:      props[PropApprovalDate],
		ApprovedCloseDate: props[PropApprovedCloseDate],
		ApprovedRLD:       props[PropApprovedRLD],
		OverrideGate:      props[PropOverrideGate],
	}
}

// Apply returns a copy of d with the given property changes applied.
// Unknown keys are ignored.
func (d Deal) Apply(changes map[string]string) Deal {
	for k, v := range changes {
		switch k {
		case PropDealName:
			d.Name = v
		case PropSeatCount:
			d.SeatCount = v
		case PropCloseDate:
			d.CloseDate = v
		case PropRLD:
			d.RLD = v
		case PropIsClosed:
			d.IsClosed = v == "true"
		case PropPipeline:
			d.Pipeline = v
		case PropComplianceStatus:
			d.ComplianceStatus = v
		case PropOverrideStatus:
			d.OverrideStatus = v
		case PropRequestedBy:
			d.RequestedBy = v
		case PropRequestDate:
			d.RequestDate = v
		case PropApprovedBy:
			d.ApprovedBy = v
		case PropApprovalDate:
			d.ApprovalDate = v
		case PropApprovedCloseDate:
			d.ApprovedCloseDate = v
		case PropApprovedRLD:
			d.ApprovedRLD = v
		case PropOverrideGate:
			d.OverrideGate = v
		}
	}
	return d
}

// CanClose reports whether the legacy closing gate lets the deal be closed won.
func (d Deal) CanClose() bool {
	return d.OverrideGate == GateApproved || d.OverrideGate == GateApprovedWithOverride
}

// Status returns the override status, treating an empty value as none.
func (d Deal) Status() string {
	if d.OverrideStatus == "" {
		return OverrideNone
	}
	return d.OverrideStatus
}

// Property returns the raw value of a CRM property held by d.
func (d Deal) Property(key string) string {
	switch key {
	case PropDealName:
		return d.Name
	case PropSeatCount:
		return d.SeatCount
	case PropCloseDate:
		return d.CloseDate
	case PropRLD:
		return d.RLD
	case PropIsClosed:
		if d.IsClosed {
			return "true"
		}
		return "false"
	case PropPipeline:
		return d.Pipeline
	case PropComplianceStatus:
		return d.ComplianceStatus
	case PropOverrideStatus:
		return d.OverrideStatus
	case PropRequestedBy:
		return d.RequestedBy
	case PropRequestDate:
		return d.RequestDate
	case PropApprovedBy:
		return d.ApprovedBy
	case PropApprovalDate:
		return d.ApprovalDate
	case PropApprovedCloseDate:
		return d.ApprovedCloseDate
	case PropApprovedRLD:
		return d.ApprovedRLD
	case PropOverrideGate:
		return d.OverrideGate
	}
	return ""
}
