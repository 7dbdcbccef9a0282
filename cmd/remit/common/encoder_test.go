package common

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultEncodes(t *testing.T) {
	v := map[string]string{"address": "GABC"}

	{
		var b bytes.Buffer
		require.NoError(t, DefaultEncodes["json"](v, &b))
		require.Equal(t, "{\"address\":\"GABC\"}\n", b.String())
	}

	{
		var b bytes.Buffer
		require.NoError(t, DefaultEncodes["prettyjson"](v, &b))
		require.Equal(t, "{\n  \"address\": \"GABC\"\n}\n", b.String())
	}

	{
		var b bytes.Buffer
		require.NoError(t, DefaultEncodes["yaml"](v, &b))
		require.Equal(t, "address: GABC\n", b.String())
	}
}
