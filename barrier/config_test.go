package barrier

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xmidt-org/userlock/lock"
)

func newViper(t *testing.T, config string) *viper.Viper {
	v := viper.New()
	v.SetConfigType("json")
	require.NoError(t, v.ReadConfig(strings.NewReader(config)))
	return v
}

func TestSub(t *testing.T) {
	assert := assert.New(t)
	assert.Nil(Sub(nil))
	assert.NotNil(Sub(newViper(t, `{"barrier": {"parties": 2}}`)))
}

func testFromViperNil(t *testing.T) {
	c, err := FromViper(nil)
	require.NoError(t, err)
	assert.Equal(t, Config{Parties: DefaultParties}, *c)
}

func testFromViperFull(t *testing.T) {
	v := newViper(t, `{
		"barrier": {
			"name": "configured",
			"rank": 4096,
			"parties": 3
		}
	}`)

	c, err := FromViper(Sub(v))
	require.NoError(t, err)
	assert.Equal(t, Config{Name: "configured", Rank: lock.Rank(4096), Parties: 3}, *c)
}

func testFromViperInvalidParties(t *testing.T) {
	for _, config := range []string{`{"parties": 0}`, `{"parties": -2}`} {
		c, err := FromViper(newViper(t, config))
		assert.Nil(t, c)
		assert.Equal(t, ErrInvalidParties, err)
	}
}

func testFromViperUnmarshalError(t *testing.T) {
	c, err := FromViper(newViper(t, `{"parties": "lots"}`))
	assert.Nil(t, c)
	assert.Error(t, err)
}

func TestFromViper(t *testing.T) {
	t.Run("Nil", testFromViperNil)
	t.Run("Full", testFromViperFull)
	t.Run("InvalidParties", testFromViperInvalidParties)
	t.Run("UnmarshalError", testFromViperUnmarshalError)
}

func TestConfigValidate(t *testing.T) {
	assert := assert.New(t)
	assert.NoError(Config{Parties: 1}.Validate())
	assert.Equal(ErrInvalidParties, Config{}.Validate())
}

func TestNewFromConfig(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)
	)

	b, err := NewFromConfig(Config{Name: "configured", Rank: lock.Rank(7), Parties: 2})
	require.NoError(err)
	defer b.Destroy()

	assert.Equal("configured", b.Name())
	assert.Equal(lock.Rank(7), b.Rank())
	assert.Equal(2, b.Parties())

	overridden, err := NewFromConfig(Config{Name: "configured", Parties: 1}, WithName("override"))
	require.NoError(err)
	defer overridden.Destroy()
	assert.Equal("override", overridden.Name())
}
