// Package rbac implements the role-based access policy for the store
// planner: who may read or write which stores, planner entries, analytics,
// and admin resources. Decisions are pure functions of the Principal.
package rbac

import (
	"errors"
	"fmt"
)

type Role string
type Action string

const (
	RoleStoreAssociate    Role = "store_associate"
	RoleDistrictManager   Role = "district_manager"
	RoleBusinessExecutive Role = "business_executive"
	RoleSuperAdmin        Role = "super_admin"
)

const (
	ActionReadStore            Action = "read_store"
	ActionListStores           Action = "list_stores"
	ActionCreateStore          Action = "create_store"
	ActionAssignStoreToManager Action = "assign_store_to_manager"
	ActionReadPlannerEntry     Action = "read_planner_entry"
	ActionWritePlannerEntry    Action = "write_planner_entry"
	ActionReadAnalytics        Action = "read_analytics"
	ActionManageUsers          Action = "manage_users"
)

// ErrInvalidRole is returned when a stored role falls outside the closed
// set. This is a data-integrity failure and must never silently downgrade
// to a weaker role.
var ErrInvalidRole = errors.New("invalid role")

// ParseRole validates a role string against the closed set.
func ParseRole(role string) (Role, error) {
	switch Role(role) {
	case RoleStoreAssociate, RoleDistrictManager, RoleBusinessExecutive, RoleSuperAdmin:
		return Role(role), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
}

// Principal is the resolved identity performing a request.
type Principal struct {
	UserID         int64
	Role           Role
	HomeStoreID    *int64  // set for store associates
	AssignedStores []int64 // set for district managers
}

// Decision is the outcome of a policy check.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision             { return Decision{Allowed: true} }
func deny(reason string) Decision { return Decision{Allowed: false, Reason: reason} }

// NoStore marks actions that do not target a particular store
// (ListStores, CreateStore, ManageUsers and friends).
const NoStore int64 = 0

// Can decides whether the principal may perform action against the store
// identified by storeID (NoStore for store-independent actions). The
// decision table is closed: unknown roles and unknown actions deny.
func Can(p Principal, action Action, storeID int64) Decision {
	switch action {
	case ActionCreateStore, ActionAssignStoreToManager, ActionManageUsers:
		if p.Role == RoleSuperAdmin {
			return allow()
		}
		return deny("requires super_admin")

	case ActionReadStore, ActionListStores:
		switch p.Role {
		case RoleBusinessExecutive, RoleSuperAdmin:
			return allow()
		case RoleStoreAssociate:
			// Listing is always allowed: an associate without a home
			// store has an empty visibility scope and sees an empty
			// list rather than a 403.
			if action == ActionListStores {
				return allow()
			}
			if p.HomeStoreID != nil && *p.HomeStoreID == storeID {
				return allow()
			}
			return deny("store not assigned")
		case RoleDistrictManager:
			if action == ActionListStores {
				return allow()
			}
			if containsStore(p.AssignedStores, storeID) {
				return allow()
			}
			return deny("store not assigned")
		}
		return deny("unknown role")

	case ActionReadPlannerEntry, ActionWritePlannerEntry:
		switch p.Role {
		case RoleSuperAdmin:
			// Administrative override.
			return allow()
		case RoleStoreAssociate:
			if p.HomeStoreID == nil {
				return deny("no home store assigned")
			}
			if *p.HomeStoreID == storeID {
				return allow()
			}
			return deny("store not assigned")
		case RoleDistrictManager, RoleBusinessExecutive:
			return deny("management roles do not edit planner entries")
		}
		return deny("unknown role")

	case ActionReadAnalytics:
		switch p.Role {
		case RoleDistrictManager:
			if storeID == NoStore || containsStore(p.AssignedStores, storeID) {
				return allow()
			}
			return deny("store not assigned")
		case RoleBusinessExecutive, RoleSuperAdmin:
			return allow()
		case RoleStoreAssociate:
			return deny("analytics require a management role")
		}
		return deny("unknown role")
	}

	return deny("unknown action")
}

// Scope describes the set of stores a principal may see in list queries.
// Either All is true, or IDs holds the concrete (possibly empty) id set.
type Scope struct {
	All bool
	IDs []int64
}

// Contains reports whether the scope covers storeID.
func (s Scope) Contains(storeID int64) bool {
	return s.All || containsStore(s.IDs, storeID)
}

// Empty reports whether the scope covers no stores at all.
func (s Scope) Empty() bool {
	return !s.All && len(s.IDs) == 0
}

// VisibleStores resolves the principal's store visibility for list
// pre-filtering. An associate without a home store and a district manager
// with no assignments both get an empty id set, never "all": list
// endpoints return empty results instead of leaking other stores.
func VisibleStores(p Principal) Scope {
	switch p.Role {
	case RoleBusinessExecutive, RoleSuperAdmin:
		return Scope{All: true}
	case RoleStoreAssociate:
		if p.HomeStoreID == nil {
			return Scope{IDs: []int64{}}
		}
		return Scope{IDs: []int64{*p.HomeStoreID}}
	case RoleDistrictManager:
		ids := make([]int64, len(p.AssignedStores))
		copy(ids, p.AssignedStores)
		return Scope{IDs: ids}
	default:
		return Scope{IDs: []int64{}}
	}
}

// ScopeAnalytics narrows an analytics request to the stores the principal
// may see. District managers get the intersection of the requested ids
// with their assignment set; requesting an unassigned store drops it
// silently, it never widens access. Executives and super admins pass
// through, and an empty request means all stores.
func ScopeAnalytics(p Principal, requested []int64) Scope {
	visible := VisibleStores(p)
	if len(requested) == 0 {
		return visible
	}
	if visible.All {
		return Scope{IDs: requested}
	}
	kept := make([]int64, 0, len(requested))
	for _, id := range requested {
		if containsStore(visible.IDs, id) {
			kept = append(kept, id)
		}
	}
	return Scope{IDs: kept}
}

func containsStore(ids []int64, storeID int64) bool {
	for _, id := range ids {
		if id == storeID {
			return true
		}
	}
	return false
}
