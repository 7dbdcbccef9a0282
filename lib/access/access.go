package access

import (
	"fmt"

	"remitnet.io/remit/lib/common"
	"remitnet.io/remit/lib/storage"
)

// Role names understood by the rest of the system. Validators make and
// vote on treasury proposals; admins mutate governance configuration.
const (
	RoleValidator string = "validator"
	RoleAdmin     string = "admin"
)

// Control is the capability the governance core consumes; it stays
// polymorphic over any registry implementation.
type Control interface {
	HasRole(role, address string) (bool, error)
	GrantRole(role, address string) error
	RevokeRole(role, address string) error
	MemberCount(role string) (uint64, error)
}

// Member is a single role assignment. the storage should support,
//  * find by role and address
//
// models
//  * 'member'
// 	- 'rl-member-<role>-<address>': `Member`
//  * 'count'
// 	- 'rl-count-<role>': number of members
const (
	memberPrefix string = "rl-member-"
	countPrefix  string = "rl-count-"
)

type Member struct {
	Role      string `json:"role"`
	Address   string `json:"address"`
	GrantedAt string `json:"granted_at"`
}

func GetMemberKey(role, address string) string {
	return fmt.Sprintf("%s%s-%s", memberPrefix, role, address)
}

func GetMemberPrefix(role string) string {
	return fmt.Sprintf("%s%s-", memberPrefix, role)
}

func GetCountKey(role string) string {
	return fmt.Sprintf("%s%s", countPrefix, role)
}

// Store keeps role assignments in leveldb; member record and member
// count are updated inside one storage transaction so the count never
// drifts from the records.
type Store struct {
	st *storage.LevelDBBackend
}

func NewStore(st *storage.LevelDBBackend) *Store {
	return &Store{st: st}
}

func (s *Store) HasRole(role, address string) (bool, error) {
	return s.st.Has(GetMemberKey(role, address))
}

func (s *Store) MemberCount(role string) (count uint64, err error) {
	var exists bool
	if exists, err = s.st.Has(GetCountKey(role)); err != nil || !exists {
		return
	}

	err = s.st.Get(GetCountKey(role), &count)
	return
}

// GrantRole is idempotent; granting an already-held role changes nothing.
func (s *Store) GrantRole(role, address string) (err error) {
	var has bool
	if has, err = s.HasRole(role, address); err != nil || has {
		return
	}

	var count uint64
	if count, err = s.MemberCount(role); err != nil {
		return
	}

	var ts *storage.LevelDBBackend
	if ts, err = s.st.OpenTransaction(); err != nil {
		return
	}

	member := Member{
		Role:      role,
		Address:   address,
		GrantedAt: common.NowISO8601(),
	}
	if err = ts.New(GetMemberKey(role, address), member); err != nil {
		ts.Discard()
		return
	}
	if err = setCount(ts, role, count+1); err != nil {
		ts.Discard()
		return
	}

	return ts.Commit()
}

// RevokeRole is idempotent; revoking a role the address does not hold
// changes nothing.
func (s *Store) RevokeRole(role, address string) (err error) {
	var has bool
	if has, err = s.HasRole(role, address); err != nil || !has {
		return
	}

	var count uint64
	if count, err = s.MemberCount(role); err != nil {
		return
	}

	var ts *storage.LevelDBBackend
	if ts, err = s.st.OpenTransaction(); err != nil {
		return
	}

	if err = ts.Remove(GetMemberKey(role, address)); err != nil {
		ts.Discard()
		return
	}
	if err = setCount(ts, role, count-1); err != nil {
		ts.Discard()
		return
	}

	return ts.Commit()
}

func setCount(st *storage.LevelDBBackend, role string, count uint64) (err error) {
	var exists bool
	if exists, err = st.Has(GetCountKey(role)); err != nil {
		return
	}

	if exists {
		return st.Set(GetCountKey(role), count)
	}
	return st.New(GetCountKey(role), count)
}

// Members returns the addresses holding `role` in storage order.
func (s *Store) Members(role string) (addresses []string, err error) {
	iterFunc, closeFunc := s.st.GetIterator(GetMemberPrefix(role), nil)
	defer closeFunc()

	for {
		item, hasNext := iterFunc()
		if !hasNext {
			break
		}

		var member Member
		if err = common.DecodeJSONValue(item.Value, &member); err != nil {
			return
		}
		addresses = append(addresses, member.Address)
	}

	return
}
