// Package authz centralizes the authorization rules that were previously
// scattered as inline role checks across the CRM and ERP actions. Every
// mutating service asks the policy for a decision instead of inspecting
// role strings itself.
package authz

import "github.com/hejmarcin29/panel-firma-sub007/internal/models"

// Action identifies a business operation subject to authorization.
type Action string

const (
	ActionMontageUpdate  Action = "montage:update"
	ActionMontageDelete  Action = "montage:delete"
	ActionMontageRestore Action = "montage:restore"
	ActionQuoteManage    Action = "quote:manage"
	ActionPOCreate       Action = "purchase_order:create"
	ActionPOReceive      Action = "purchase_order:receive"
	ActionMaterialsIssue Action = "materials:issue"
	ActionSettlementSave Action = "settlement:save"
	ActionSettlementPay  Action = "settlement:pay"
	ActionAdvanceRequest Action = "advance:request"
	ActionAdvanceApprove Action = "advance:approve"
	ActionReportExport   Action = "report:export"
	ActionUserManage     Action = "user:manage"
)

// Actor is the authenticated caller, as resolved from the session.
type Actor struct {
	ID    uint
	Roles []string
}

func (a Actor) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (a Actor) IsAdmin() bool {
	return a.HasRole(models.RoleAdmin)
}

// Policy maps actions to the roles allowed to perform them. Admins are
// implicitly allowed everything.
type Policy struct {
	rules map[Action][]string
}

// Default returns the policy used in production.
func Default() *Policy {
	return &Policy{rules: map[Action][]string{
		ActionMontageUpdate:  {models.RoleOffice},
		ActionMontageDelete:  {},
		ActionMontageRestore: {},
		ActionQuoteManage:    {models.RoleOffice},
		ActionPOCreate:       {models.RoleOffice},
		ActionPOReceive:      {models.RoleOffice},
		ActionMaterialsIssue: {models.RoleOffice},
		ActionSettlementSave: {models.RoleInstaller},
		ActionSettlementPay:  {},
		ActionAdvanceRequest: {models.RoleInstaller},
		ActionAdvanceApprove: {},
		ActionReportExport:   {models.RoleOffice},
		ActionUserManage:     {},
	}}
}

// Allow reports whether actor may perform action. Resource-level checks
// (e.g. an installer saving only their own settlement) stay in the
// services; this answers the role-level question only.
func (p *Policy) Allow(actor Actor, action Action) bool {
	if actor.IsAdmin() {
		return true
	}
	roles, ok := p.rules[action]
	if !ok {
		return false
	}
	for _, role := range roles {
		if actor.HasRole(role) {
			return true
		}
	}
	return false
}
