package access

// Registry is the voter-set view the governance engine consumes: the
// current number of validators and whether an address is one of them.
type Registry struct {
	ctrl Control
}

func NewRegistry(ctrl Control) *Registry {
	return &Registry{ctrl: ctrl}
}

func (r *Registry) Count() (uint64, error) {
	return r.ctrl.MemberCount(RoleValidator)
}

func (r *Registry) IsValidator(address string) (bool, error) {
	return r.ctrl.HasRole(RoleValidator, address)
}
