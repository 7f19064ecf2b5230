package l1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseControllerRef(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		ref   ControllerRef
		err   bool
	}{
		{name: "valid", input: "trainctl/a1b2", ref: ControllerRef{Type: "trainctl", ID: "a1b2"}},
		{name: "no slash", input: "trainctl", err: true},
		{name: "empty id", input: "trainctl/", err: true},
		{name: "empty type", input: "/a1b2", err: true},
		{name: "nested", input: "trainctl/a/b", err: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ref, err := ParseControllerRef(tc.input)
			if tc.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.ref, ref)
			assert.Equal(t, tc.input, ref.Name())
		})
	}
}
