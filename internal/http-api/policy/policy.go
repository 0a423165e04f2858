// Package policy decides who may do what to which resource.
//
// Authorize is a pure function: it never touches storage. Callers resolve the
// resource owner first and pass it in through Resource.OwnerID.
package policy

import (
	"errors"
	"fmt"

	"yamdb/internal/http-api/models"
)

var (
	ErrUnauthenticated  = errors.New("authentication credentials were not provided")
	ErrForbidden        = errors.New("you do not have permission to perform this action")
	ErrMethodNotAllowed = errors.New("method not allowed")
)

type Action string

const (
	ActionList     Action = "list"
	ActionRetrieve Action = "retrieve"
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"  // partial update (PATCH)
	ActionReplace  Action = "replace" // full replace (PUT), never supported
	ActionDelete   Action = "delete"
)

// ReadOnly reports whether the action leaves the resource untouched.
func (a Action) ReadOnly() bool {
	return a == ActionList || a == ActionRetrieve
}

type Kind string

const (
	KindCategory Kind = "category"
	KindGenre    Kind = "genre"
	KindTitle    Kind = "title"
	KindReview   Kind = "review"
	KindComment  Kind = "comment"
	KindUser     Kind = "user"
)

// Public kinds can be read without credentials.
func (k Kind) Public() bool {
	return k != KindUser
}

func (k Kind) adminManaged() bool {
	return k == KindCategory || k == KindGenre || k == KindTitle
}

// Actor is the identity performing a request. The zero value is anonymous.
type Actor struct {
	ID          string
	Role        models.Role
	IsSuperuser bool
}

// Anonymous returns an unauthenticated actor.
func Anonymous() Actor { return Actor{} }

// ActorFromUser builds an actor from a stored user.
func ActorFromUser(u *models.User) Actor {
	return Actor{ID: u.ID, Role: u.Role, IsSuperuser: u.IsSuperuser}
}

func (a Actor) Authenticated() bool { return a.ID != "" }

// IsAdmin is the single authority check: the superuser flag and the admin role
// grant the same rights.
func (a Actor) IsAdmin() bool {
	return a.Authenticated() && (a.IsSuperuser || a.Role == models.RoleAdmin)
}

func (a Actor) IsModerator() bool {
	return a.Authenticated() && a.Role == models.RoleModerator
}

// Resource identifies the target of an action. OwnerID is the author of a
// review or comment, or the user id of a user record; empty for collections.
type Resource struct {
	Kind    Kind
	OwnerID string
}

func (r Resource) ownedBy(a Actor) bool {
	return r.OwnerID != "" && r.OwnerID == a.ID
}

type Reason string

const (
	ReasonNone             Reason = ""
	ReasonUnauthenticated  Reason = "unauthenticated"
	ReasonForbidden        Reason = "forbidden"
	ReasonSelfDelete       Reason = "self_delete"
	ReasonMethodNotAllowed Reason = "method_not_allowed"
)

type Decision struct {
	Allowed bool
	Reason  Reason
}

func allow() Decision              { return Decision{Allowed: true} }
func deny(reason Reason) Decision { return Decision{Reason: reason} }

// Err maps a denial onto the error callers surface; nil when allowed.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	switch d.Reason {
	case ReasonUnauthenticated:
		return ErrUnauthenticated
	case ReasonMethodNotAllowed:
		return ErrMethodNotAllowed
	case ReasonSelfDelete:
		return fmt.Errorf("%w: you cannot delete your own account", ErrForbidden)
	default:
		return ErrForbidden
	}
}

// Authorize evaluates the rules in precedence order and returns the first
// decision that applies.
func Authorize(actor Actor, action Action, res Resource) Decision {
	if action == ActionReplace {
		return deny(ReasonMethodNotAllowed)
	}
	if action.ReadOnly() && res.Kind.Public() {
		return allow()
	}
	if !actor.Authenticated() {
		return deny(ReasonUnauthenticated)
	}

	switch {
	case res.Kind == KindUser:
		return authorizeUser(actor, action, res)
	case res.Kind.adminManaged():
		if actor.IsAdmin() {
			return allow()
		}
		return deny(ReasonForbidden)
	case res.Kind == KindReview:
		if action == ActionCreate {
			return allow()
		}
		if res.ownedBy(actor) || actor.IsModerator() || actor.IsAdmin() {
			return allow()
		}
		return deny(ReasonForbidden)
	case res.Kind == KindComment:
		if action == ActionCreate {
			return allow()
		}
		// moderators moderate reviews, not comments
		if res.ownedBy(actor) || actor.IsAdmin() {
			return allow()
		}
		return deny(ReasonForbidden)
	}
	return deny(ReasonForbidden)
}

func authorizeUser(actor Actor, action Action, res Resource) Decision {
	self := res.ownedBy(actor)
	if action == ActionDelete && self {
		return deny(ReasonSelfDelete)
	}
	if self && (action == ActionRetrieve || action == ActionUpdate) {
		return allow()
	}
	if actor.IsAdmin() {
		return allow()
	}
	return deny(ReasonForbidden)
}

// CanAssignRole reports whether the actor may change a role, including its own.
// Other actors have role changes on their own record dropped silently.
func CanAssignRole(actor Actor) bool {
	return actor.IsAdmin()
}
