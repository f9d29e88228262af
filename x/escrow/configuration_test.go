package escrow

import (
	"encoding/json"
	"testing"

	"github.com/mailpay/custody"
	"github.com/mailpay/custody/custodytest"
	"github.com/mailpay/custody/custodytest/assert"
	"github.com/mailpay/custody/errors"
	"github.com/mailpay/custody/store"
)

func TestConfigurationValidate(t *testing.T) {
	owner := custodytest.NewCondition().Address()

	cases := map[string]struct {
		conf    Configuration
		wantErr *errors.Error
	}{
		"valid": {
			conf: Configuration{Owner: owner, FeeBps: 200, Timeout: 3600},
		},
		"zero fee is valid": {
			conf: Configuration{Owner: owner, FeeBps: 0, Timeout: 3600},
		},
		"full fee is valid": {
			conf: Configuration{Owner: owner, FeeBps: 10000, Timeout: 3600},
		},
		"fee above denominator": {
			conf:    Configuration{Owner: owner, FeeBps: 10001, Timeout: 3600},
			wantErr: errors.ErrInput,
		},
		"missing owner": {
			conf:    Configuration{FeeBps: 200, Timeout: 3600},
			wantErr: errors.ErrInput,
		},
		"zero timeout": {
			conf:    Configuration{Owner: owner, FeeBps: 200},
			wantErr: errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.conf.Validate()
			if tc.wantErr == nil {
				assert.Nil(t, err)
			} else if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}

func TestConfigurationSerialization(t *testing.T) {
	conf := Configuration{
		Owner:          custodytest.NewCondition().Address(),
		FeeBps:         DefaultFeeBps,
		Timeout:        DefaultTimeout,
		MinimumReserve: 1_000,
	}
	raw, err := conf.Marshal()
	assert.Nil(t, err)
	assert.Equal(t, configSize, len(raw))

	var got Configuration
	assert.Nil(t, got.Unmarshal(raw))
	assert.Equal(t, conf, got)
}

func TestGenesisInitializer(t *testing.T) {
	owner := custodytest.NewCondition().Address()
	genesis := `{
		"conf": {
			"escrow": {
				"owner": "` + owner.String() + `",
				"fee_bps": 200,
				"timeout": 2592000,
				"minimum_reserve": 1000
			}
		}
	}`
	var opts custody.Options
	assert.Nil(t, json.Unmarshal([]byte(genesis), &opts))

	db := store.MemStore()
	var ini Initializer
	assert.Nil(t, ini.FromGenesis(opts, db))

	conf, err := loadConf(db)
	assert.Nil(t, err)
	assert.Equal(t, owner, conf.Owner)
	assert.Equal(t, uint32(200), conf.FeeBps)
	assert.Equal(t, DefaultTimeout, conf.Timeout)
}
