package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"rldguard/internal/authz"
	"rldguard/internal/compliance"
	"rldguard/internal/models"
	"rldguard/internal/pdf"
	"rldguard/internal/repositories"
)

// trackedProps changes trigger a reconciliation after a write.
var trackedProps = map[string]bool{
	models.PropCloseDate: true,
	models.PropRLD:       true,
	models.PropIsClosed:  true,
	models.PropPipeline:  true,
}

// overrideProps are only written by the override workflow and the reconciler.
var overrideProps = map[string]bool{
	models.PropComplianceStatus:  true,
	models.PropOverrideStatus:    true,
	models.PropRequestedBy:       true,
	models.PropRequestDate:       true,
	models.PropApprovedBy:        true,
	models.PropApprovalDate:      true,
	models.PropApprovedCloseDate: true,
	models.PropApprovedRLD:       true,
	models.PropOverrideGate:      true,
}

// PropertyUpdate is one requested write. A nil Value is a missing value.
type PropertyUpdate struct {
	Property string  `json:"property"`
	Value    *string `json:"value"`
}

// ComplianceView is what the deal card renders.
type ComplianceView struct {
	Deal          models.Deal        `json:"deal"`
	Violations    []models.Violation `json:"violations"`
	Primary       string             `json:"primary_violation"`
	Compliant     bool               `json:"compliant"`
	SuggestedRLD  string             `json:"suggested_rld,omitempty"`
	NeedsRLDFix   bool               `json:"needs_rld_fix"`
	CanClose      bool               `json:"can_close"`
	CanApprove    bool               `json:"can_approve"`
	AllowOverride bool               `json:"allow_override"`
}

// ReconcileOutcome is the result of writing a reconciliation back to the CRM.
type ReconcileOutcome struct {
	ComplianceView
	Changes []models.PropertyResult `json:"changes"`
	Actions []string                `json:"actions,omitempty"`
}

// UpdateOutcome is the result of a caller-driven multi-field write.
type UpdateOutcome struct {
	Results    []models.PropertyResult `json:"results"`
	Reconciled *ReconcileOutcome       `json:"reconciled,omitempty"`
}

// OverrideOutcome is the result of an override request or decision.
type OverrideOutcome struct {
	Deal     models.Deal       `json:"deal"`
	Decision *OverrideDecision `json:"decision,omitempty"`
	Notified []string          `json:"notified,omitempty"`
}

type DealServiceOptions struct {
	Store     DealStore
	Evaluator *compliance.Evaluator
	Policy    *authz.Policy
	Notifiers []OverrideNotifier
	Mailer    EmailService
	Reports   pdf.Generator
	Events    repositories.OverrideEventRepository
	Now       func() time.Time
}

type DealService struct {
	store     DealStore
	evaluator *compliance.Evaluator
	policy    *authz.Policy
	notifiers []OverrideNotifier
	mailer    EmailService
	reports   pdf.Generator
	events    repositories.OverrideEventRepository
	now       func() time.Time
}

func NewDealService(opts DealServiceOptions) *DealService {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &DealService{
		store:     opts.Store,
		evaluator: opts.Evaluator,
		policy:    opts.Policy,
		notifiers: opts.Notifiers,
		mailer:    opts.Mailer,
		reports:   opts.Reports,
		events:    opts.Events,
		now:       now,
	}
}

func (s *DealService) CanApprove(actor models.Actor) bool {
	return s.policy.CanApprove(actor)
}

// GetProperties fetches raw CRM properties; keys defaults to the card's set.
func (s *DealService) GetProperties(ctx context.Context, dealID string, keys []string) (map[string]string, error) {
	if strings.TrimSpace(dealID) == "" {
		return nil, ErrDealIDRequired
	}
	if len(keys) == 0 {
		keys = models.DealProperties
	}
	props, err := s.store.GetProperties(ctx, dealID, keys)
	if err != nil {
		return nil, fmt.Errorf("get deal %s: %w", dealID, err)
	}
	return props, nil
}

func (s *DealService) LoadDeal(ctx context.Context, dealID string) (models.Deal, error) {
	props, err := s.GetProperties(ctx, dealID, models.DealProperties)
	if err != nil {
		return models.Deal{}, err
	}
	return models.DealFromProperties(dealID, props), nil
}

// UpdateProperties validates every field locally, writes them in one batch and
// reconciles when a tracked date or flag was part of the write.
func (s *DealService) UpdateProperties(ctx context.Context, dealID string, actor models.Actor, updates []PropertyUpdate) (UpdateOutcome, error) {
	if strings.TrimSpace(dealID) == "" {
		return UpdateOutcome{}, ErrDealIDRequired
	}
	if len(updates) == 0 {
		return UpdateOutcome{}, ErrPropertyRequired
	}
	props := make(map[string]string, len(updates))
	for _, u := range updates {
		if strings.TrimSpace(u.Property) == "" {
			return UpdateOutcome{}, ErrPropertyRequired
		}
		if u.Value == nil {
			return UpdateOutcome{}, fmt.Errorf("%s: %w", u.Property, ErrValueRequired)
		}
		if overrideProps[strings.ToLower(strings.TrimSpace(u.Property))] {
			log.Printf("[deal][update][forbidden] deal=%s prop=%s by=%q", dealID, u.Property, actor.Label())
			return UpdateOutcome{}, fmt.Errorf("%s: %w: %w", u.Property, ErrProtectedProperty, ErrForbidden)
		}
		props[u.Property] = *u.Value
	}

	results, err := s.write(ctx, dealID, props)
	out := UpdateOutcome{Results: results}
	if err != nil {
		return out, err
	}

	for p := range props {
		if trackedProps[p] {
			rec, err := s.Reconcile(ctx, dealID, actor)
			if err != nil {
				return out, err
			}
			out.Reconciled = &rec
			break
		}
	}
	return out, nil
}

// Compliance evaluates the deal without writing anything.
func (s *DealService) Compliance(ctx context.Context, dealID string, actor models.Actor) (ComplianceView, error) {
	d, err := s.LoadDeal(ctx, dealID)
	if err != nil {
		return ComplianceView{}, err
	}
	return s.view(d, actor), nil
}

// Reconcile brings the deal's override properties in line with its
// compliance and writes the difference in one batch.
func (s *DealService) Reconcile(ctx context.Context, dealID string, actor models.Actor) (ReconcileOutcome, error) {
	d, err := s.LoadDeal(ctx, dealID)
	if err != nil {
		return ReconcileOutcome{}, err
	}
	return s.reconcileDeal(ctx, d, actor)
}

func (s *DealService) reconcileDeal(ctx context.Context, d models.Deal, actor models.Actor) (ReconcileOutcome, error) {
	rec := Reconcile(d, s.evaluate(d), s.evaluator.Today())
	if len(rec.Changes) == 0 {
		return ReconcileOutcome{ComplianceView: s.view(d, actor)}, nil
	}

	results, err := s.write(ctx, d.ID, rec.Changes)
	after := d.Apply(models.Succeeded(results))
	out := ReconcileOutcome{ComplianceView: s.view(after, actor), Changes: results, Actions: rec.Actions}
	if err != nil {
		return out, err
	}
	log.Printf("[reconcile] deal=%s actions=%v changes=%d", d.ID, rec.Actions, len(rec.Changes))
	s.record(ctx, d, after, reconcileActor(rec.Actions), strings.Join(rec.Actions, ","))
	return out, nil
}

// ApplySuggestedRLD writes the suggested launch date and reconciles.
func (s *DealService) ApplySuggestedRLD(ctx context.Context, dealID string, actor models.Actor) (ReconcileOutcome, error) {
	d, err := s.LoadDeal(ctx, dealID)
	if err != nil {
		return ReconcileOutcome{}, err
	}
	suggested, ok := s.evaluator.Suggest(d.CloseDate, d.RLD)
	if !ok {
		return ReconcileOutcome{}, ErrNoCloseDate
	}
	return s.writeRLD(ctx, d, actor, compliance.FormatDate(suggested))
}

// SetRLD writes a custom launch date only when it is compliant. Otherwise it
// returns a *NonCompliantError and leaves the deal untouched.
func (s *DealService) SetRLD(ctx context.Context, dealID string, actor models.Actor, raw string) (ReconcileOutcome, error) {
	rld, err := normalizeDate(raw)
	if err != nil {
		return ReconcileOutcome{}, err
	}
	d, err := s.LoadDeal(ctx, dealID)
	if err != nil {
		return ReconcileOutcome{}, err
	}
	candidate := d
	candidate.RLD = rld
	vs := s.evaluate(candidate)
	if !models.IsCompliant(vs) {
		return ReconcileOutcome{}, &NonCompliantError{RLD: rld, Violations: vs, SuggestedRLD: s.suggest(candidate)}
	}
	return s.writeRLD(ctx, d, actor, rld)
}

// SetRLDWithOverride writes a non-compliant launch date and asks managers to
// accept it.
func (s *DealService) SetRLDWithOverride(ctx context.Context, dealID string, actor models.Actor, raw, reason string) (OverrideOutcome, error) {
	rld, err := normalizeDate(raw)
	if err != nil {
		return OverrideOutcome{}, err
	}
	d, err := s.LoadDeal(ctx, dealID)
	if err != nil {
		return OverrideOutcome{}, err
	}
	candidate := d
	candidate.RLD = rld
	if err := s.checkOverrideRequest(candidate); err != nil {
		return OverrideOutcome{}, err
	}
	if _, err := s.write(ctx, d.ID, map[string]string{models.PropRLD: rld}); err != nil {
		return OverrideOutcome{}, err
	}
	d.RLD = rld
	return s.requestOverride(ctx, d, actor, reason)
}

func (s *DealService) writeRLD(ctx context.Context, d models.Deal, actor models.Actor, rld string) (ReconcileOutcome, error) {
	results, err := s.write(ctx, d.ID, map[string]string{models.PropRLD: rld})
	if err != nil {
		return ReconcileOutcome{Changes: results}, err
	}
	log.Printf("[rld][set] deal=%s rld=%s by=%q", d.ID, rld, actor.Label())
	out, err := s.reconcileDeal(ctx, d.Apply(models.Succeeded(results)), actor)
	out.Changes = append(results, out.Changes...)
	return out, err
}

// RequestOverride marks the deal pending and notifies managers. Properties
// are committed first; notifications are best-effort.
func (s *DealService) RequestOverride(ctx context.Context, dealID string, actor models.Actor, reason string) (OverrideOutcome, error) {
	d, err := s.LoadDeal(ctx, dealID)
	if err != nil {
		return OverrideOutcome{}, err
	}
	return s.requestOverride(ctx, d, actor, reason)
}

// checkOverrideRequest allows a request only for a non-compliant deal that has
// no pending or approved override.
func (s *DealService) checkOverrideRequest(d models.Deal) error {
	if !overrideAllowed(d.Status(), models.IsCompliant(s.evaluate(d))) {
		return ErrOverrideNotAllowed
	}
	if !canTransition(d.Status(), models.OverridePending, OverrideTransitions) {
		return ErrInvalidTransition
	}
	return nil
}

func overrideAllowed(status string, compliant bool) bool {
	return !compliant && status != models.OverridePending && status != models.OverrideApproved
}

func (s *DealService) requestOverride(ctx context.Context, d models.Deal, actor models.Actor, reason string) (OverrideOutcome, error) {
	if err := s.checkOverrideRequest(d); err != nil {
		log.Printf("[override][request][reject] deal=%s status=%s: %v", d.ID, d.Status(), err)
		return OverrideOutcome{}, err
	}
	today := compliance.FormatDate(s.evaluator.Today())
	changes := map[string]string{
		models.PropOverrideStatus:    models.OverridePending,
		models.PropRequestedBy:       actor.Label(),
		models.PropRequestDate:       today,
		models.PropApprovedBy:        "",
		models.PropApprovalDate:      "",
		models.PropOverrideGate:      "",
		models.PropApprovedCloseDate: "",
		models.PropApprovedRLD:       "",
	}
	if _, err := s.write(ctx, d.ID, changes); err != nil {
		return OverrideOutcome{}, err
	}
	after := d.Apply(changes)
	log.Printf("[override][request] deal=%s by=%q", d.ID, actor.Label())
	s.record(ctx, d, after, actor.Label(), reason)

	vs := s.evaluate(after)
	req := OverrideRequest{
		DealID:       d.ID,
		DealName:     d.Name,
		SeatCount:    d.SeatCount,
		CloseDate:    d.CloseDate,
		CurrentRLD:   d.RLD,
		SuggestedRLD: s.suggest(after),
		Violations:   models.Messages(vs),
		RepName:      actor.FullName(),
		RepEmail:     actor.Email,
		RequestedBy:  actor.Label(),
		RequestDate:  today,
	}
	out := OverrideOutcome{Deal: after}
	for _, n := range s.notifiers {
		if n == nil {
			continue
		}
		if err := n.NotifyOverrideRequest(ctx, req); err != nil {
			log.Printf("[override][notify][err] deal=%s: %v", d.ID, err)
			continue
		}
		out.Notified = append(out.Notified, n.Channel())
	}
	return out, nil
}

// ApproveOverride grants the override and snapshots both dates.
func (s *DealService) ApproveOverride(ctx context.Context, dealID string, actor models.Actor) (OverrideOutcome, error) {
	return s.decide(ctx, dealID, actor, true)
}

// DenyOverride rejects a pending request, or revokes an approval.
func (s *DealService) DenyOverride(ctx context.Context, dealID string, actor models.Actor) (OverrideOutcome, error) {
	return s.decide(ctx, dealID, actor, false)
}

func (s *DealService) decide(ctx context.Context, dealID string, actor models.Actor, approve bool) (OverrideOutcome, error) {
	if strings.TrimSpace(dealID) == "" {
		return OverrideOutcome{}, ErrDealIDRequired
	}
	if !s.policy.CanApprove(actor) {
		log.Printf("[override][forbidden] deal=%s actor=%q", dealID, actor.Label())
		return OverrideOutcome{}, ErrForbidden
	}
	d, err := s.LoadDeal(ctx, dealID)
	if err != nil {
		return OverrideOutcome{}, err
	}

	now := s.now()
	today := compliance.FormatDate(s.evaluator.Today())
	var changes map[string]string
	switch {
	case approve:
		if !canTransition(d.Status(), models.OverrideApproved, OverrideTransitions) {
			return OverrideOutcome{}, ErrInvalidTransition
		}
		changes = map[string]string{
			models.PropOverrideStatus:    models.OverrideApproved,
			models.PropApprovedBy:        actor.Label(),
			models.PropApprovalDate:      today,
			models.PropOverrideGate:      models.GateApprovedWithOverride,
			models.PropApprovedCloseDate: d.CloseDate,
			models.PropApprovedRLD:       d.RLD,
		}
	case d.Status() == models.OverrideApproved:
		changes = map[string]string{
			models.PropOverrideStatus:    models.OverrideNone,
			models.PropApprovedBy:        "",
			models.PropApprovalDate:      "",
			models.PropRequestedBy:       "",
			models.PropRequestDate:       "",
			models.PropOverrideGate:      "",
			models.PropApprovedCloseDate: "",
			models.PropApprovedRLD:       "",
		}
	default:
		if !canTransition(d.Status(), models.OverrideDenied, OverrideTransitions) {
			return OverrideOutcome{}, ErrInvalidTransition
		}
		changes = map[string]string{
			models.PropOverrideStatus: models.OverrideDenied,
			models.PropApprovedBy:     actor.Label(),
			models.PropApprovalDate:   today,
			models.PropOverrideGate:   "",
		}
	}

	if _, err := s.write(ctx, d.ID, changes); err != nil {
		return OverrideOutcome{}, err
	}
	after := d.Apply(changes)
	decision := OverrideDecision{
		DealID:    d.ID,
		DealName:  d.Name,
		Approved:  approve,
		Manager:   orDefault(actor.FullName(), actor.ID),
		DecidedAt: now,
	}
	log.Printf("[override][%s] deal=%s by=%q status=%s->%s", decision.Verb(), d.ID, actor.Label(), d.Status(), after.Status())
	s.record(ctx, d, after, actor.Label(), decision.Verb())
	s.mailDecision(d, after, decision)

	return OverrideOutcome{Deal: after, Decision: &decision}, nil
}

// mailDecision tells the requesting rep; failures are logged only.
func (s *DealService) mailDecision(before, after models.Deal, decision OverrideDecision) {
	if s.mailer == nil {
		return
	}
	to := labelEmail(before.RequestedBy)
	if to == "" {
		log.Printf("[override][mail][skip] deal=%s no requester email", before.ID)
		return
	}
	notice := DecisionNotice{Decision: decision, CloseDate: before.CloseDate, RLD: before.RLD}
	if s.reports != nil {
		if report, err := s.reports.ComplianceReport(s.reportData(after)); err == nil {
			notice.Report = report
		} else {
			log.Printf("[override][mail] deal=%s report: %v", before.ID, err)
		}
	}
	if err := s.mailer.SendOverrideDecision(to, notice); err != nil {
		log.Printf("[override][mail][err] deal=%s: %v", before.ID, err)
	}
}

// ReportPDF renders the deal's current compliance as a PDF document.
func (s *DealService) ReportPDF(ctx context.Context, dealID string) ([]byte, error) {
	if s.reports == nil {
		return nil, fmt.Errorf("report generator not configured")
	}
	d, err := s.LoadDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}
	return s.reports.ComplianceReport(s.reportData(d))
}

// History lists recorded override transitions, newest first.
func (s *DealService) History(ctx context.Context, dealID string, limit int) ([]models.OverrideEvent, error) {
	if strings.TrimSpace(dealID) == "" {
		return nil, ErrDealIDRequired
	}
	if s.events == nil {
		return nil, ErrAuditDisabled
	}
	return s.events.ListByDeal(ctx, dealID, limit)
}

func (s *DealService) reportData(d models.Deal) pdf.ReportData {
	vs := s.evaluate(d)
	rv := make([]pdf.ReportViolation, 0, len(vs))
	for _, v := range vs {
		rv = append(rv, pdf.ReportViolation{Priority: v.Priority, Type: v.Type, Message: v.Message, Severity: v.Severity})
	}
	return pdf.ReportData{
		DealID:           d.ID,
		DealName:         d.Name,
		Seats:            FormatSeats(d.SeatCount),
		Pipeline:         d.Pipeline,
		CloseDate:        HumanDate(d.CloseDate),
		RLD:              HumanDate(d.RLD),
		SuggestedRLD:     HumanDate(s.suggest(d)),
		ComplianceStatus: models.PrimaryViolation(vs),
		OverrideStatus:   d.Status(),
		RequestedBy:      d.RequestedBy,
		ApprovedBy:       d.ApprovedBy,
		ApprovalDate:     d.ApprovalDate,
		CanClose:         d.CanClose(),
		Violations:       rv,
		GeneratedAt:      s.now(),
	}
}

func (s *DealService) view(d models.Deal, actor models.Actor) ComplianceView {
	vs := s.evaluate(d)
	compliant := models.IsCompliant(vs)
	return ComplianceView{
		Deal:          d,
		Violations:    vs,
		Primary:       models.PrimaryViolation(vs),
		Compliant:     compliant,
		SuggestedRLD:  s.suggest(d),
		NeedsRLDFix:   models.NeedsRLDFix(vs),
		CanClose:      d.CanClose(),
		CanApprove:    s.policy.CanApprove(actor),
		AllowOverride: overrideAllowed(d.Status(), compliant),
	}
}

func (s *DealService) evaluate(d models.Deal) []models.Violation {
	return s.evaluator.Evaluate(compliance.Input{
		CloseDate: d.CloseDate,
		RLD:       d.RLD,
		IsClosed:  d.IsClosed,
		Pipeline:  d.Pipeline,
	})
}

func (s *DealService) suggest(d models.Deal) string {
	t, ok := s.evaluator.Suggest(d.CloseDate, d.RLD)
	if !ok {
		return ""
	}
	return compliance.FormatDate(t)
}

// write sends props as one batch and reports the outcome per field.
func (s *DealService) write(ctx context.Context, dealID string, props map[string]string) ([]models.PropertyResult, error) {
	names := make([]string, 0, len(props))
	for k := range props {
		names = append(names, k)
	}
	sort.Strings(names)

	err := s.store.UpdateProperties(ctx, dealID, props)
	results := make([]models.PropertyResult, 0, len(names))
	for _, k := range names {
		r := models.PropertyResult{Property: k, Value: props[k], Success: err == nil}
		if err != nil {
			r.Error = err.Error()
		}
		results = append(results, r)
	}
	if err != nil {
		return results, fmt.Errorf("update deal %s: %w", dealID, err)
	}
	return results, nil
}

// record appends an audit event when the override status moved. It never
// fails the caller.
func (s *DealService) record(ctx context.Context, before, after models.Deal, actor, reason string) {
	if s.events == nil || before.Status() == after.Status() {
		return
	}
	e := &models.OverrideEvent{
		DealID:     after.ID,
		FromStatus: before.Status(),
		ToStatus:   after.Status(),
		Actor:      actor,
		Reason:     reason,
		CloseDate:  after.CloseDate,
		RLD:        after.RLD,
	}
	if err := s.events.Create(ctx, e); err != nil {
		log.Printf("[audit][err] deal=%s %s->%s: %v", after.ID, e.FromStatus, e.ToStatus, err)
	}
}

func reconcileActor(actions []string) string {
	for _, a := range actions {
		if a == ActionAutoApproved {
			return models.AutoApprovedActor
		}
	}
	return "reconciler"
}

// labelEmail extracts the address from "First Last (email)".
func labelEmail(label string) string {
	open := strings.LastIndex(label, "(")
	end := strings.LastIndex(label, ")")
	if open < 0 || end <= open+1 {
		return ""
	}
	email := strings.TrimSpace(label[open+1 : end])
	if !strings.Contains(email, "@") {
		return ""
	}
	return email
}

func normalizeDate(raw string) (string, error) {
	t, ok := compliance.ParseDate(raw)
	if !ok {
		return "", fmt.Errorf("%q: %w", raw, ErrInvalidDate)
	}
	return compliance.FormatDate(t), nil
}
