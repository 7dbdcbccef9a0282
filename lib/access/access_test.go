package access

import (
	"testing"

	"github.com/stellar/go/keypair"
	"github.com/stretchr/testify/require"

	"remitnet.io/remit/lib/storage"
)

func testAddress() string {
	kp, _ := keypair.Random()
	return kp.Address()
}

func TestGrantAndRevokeRole(t *testing.T) {
	st := storage.NewTestMemoryBackend()
	defer st.Close()

	ctrl := NewStore(st)
	address := testAddress()

	has, err := ctrl.HasRole(RoleValidator, address)
	require.Nil(t, err)
	require.False(t, has)

	require.Nil(t, ctrl.GrantRole(RoleValidator, address))

	has, err = ctrl.HasRole(RoleValidator, address)
	require.Nil(t, err)
	require.True(t, has)

	count, err := ctrl.MemberCount(RoleValidator)
	require.Nil(t, err)
	require.Equal(t, uint64(1), count)

	require.Nil(t, ctrl.RevokeRole(RoleValidator, address))

	has, err = ctrl.HasRole(RoleValidator, address)
	require.Nil(t, err)
	require.False(t, has)

	count, err = ctrl.MemberCount(RoleValidator)
	require.Nil(t, err)
	require.Equal(t, uint64(0), count)
}

func TestGrantRoleIdempotent(t *testing.T) {
	st := storage.NewTestMemoryBackend()
	defer st.Close()

	ctrl := NewStore(st)
	address := testAddress()

	require.Nil(t, ctrl.GrantRole(RoleValidator, address))
	require.Nil(t, ctrl.GrantRole(RoleValidator, address))

	count, err := ctrl.MemberCount(RoleValidator)
	require.Nil(t, err)
	require.Equal(t, uint64(1), count)

	require.Nil(t, ctrl.RevokeRole(RoleValidator, address))
	require.Nil(t, ctrl.RevokeRole(RoleValidator, address))

	count, err = ctrl.MemberCount(RoleValidator)
	require.Nil(t, err)
	require.Equal(t, uint64(0), count)
}

func TestRolesAreIndependent(t *testing.T) {
	st := storage.NewTestMemoryBackend()
	defer st.Close()

	ctrl := NewStore(st)
	address := testAddress()

	require.Nil(t, ctrl.GrantRole(RoleAdmin, address))

	has, err := ctrl.HasRole(RoleValidator, address)
	require.Nil(t, err)
	require.False(t, has)

	count, err := ctrl.MemberCount(RoleValidator)
	require.Nil(t, err)
	require.Equal(t, uint64(0), count)
}

func TestRegistryCount(t *testing.T) {
	st := storage.NewTestMemoryBackend()
	defer st.Close()

	ctrl := NewStore(st)
	registry := NewRegistry(ctrl)

	var members []string
	for i := 0; i < 4; i++ {
		address := testAddress()
		members = append(members, address)
		require.Nil(t, ctrl.GrantRole(RoleValidator, address))
	}

	count, err := registry.Count()
	require.Nil(t, err)
	require.Equal(t, uint64(4), count)

	ok, err := registry.IsValidator(members[0])
	require.Nil(t, err)
	require.True(t, ok)

	listed, err := ctrl.Members(RoleValidator)
	require.Nil(t, err)
	require.Equal(t, 4, len(listed))
}
