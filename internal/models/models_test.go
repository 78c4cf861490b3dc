package models

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageLabel(t *testing.T) {
	assert.Equal(t, "Created", StageCreated.Label())
	assert.Equal(t, "Retail", StagePurchasable.Label())
	assert.Equal(t, "Sold", StageSold.String())
	assert.Equal(t, "Unknown (9)", Stage(9).Label())
	assert.Len(t, Stages(), 6)
}

func TestWeiToEther(t *testing.T) {
	tests := []struct {
		wei  string
		want string
	}{
		{"0", "0"},
		{"1000000000000000000", "1"},
		{"1500000000000000000", "1.5"},
		{"1", "0.000000000000000001"},
		{"123000000000000000000", "123"},
		{"-250000000000000000", "-0.25"},
	}

	for _, tt := range tests {
		t.Run(tt.wei, func(t *testing.T) {
			wei, ok := new(big.Int).SetString(tt.wei, 10)
			require.True(t, ok)
			assert.Equal(t, tt.want, WeiToEther(wei))
		})
	}
	assert.Equal(t, "0", WeiToEther(nil))
}

func TestEtherToWei(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "1", want: "1000000000000000000"},
		{in: "0.05", want: "50000000000000000"},
		{in: ".5", want: "500000000000000000"},
		{in: "0.000000000000000001", want: "1"},
		{in: "0", want: "0"},
		{in: "", wantErr: true},
		{in: "-1", wantErr: true},
		{in: "1.", wantErr: true},
		{in: "1.2.3", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "0.0000000000000000001", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			wei, err := EtherToWei(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, wei.String())
		})
	}
}

func TestProductPrice(t *testing.T) {
	wei, ok := new(big.Int).SetString("123456789000000000000000", 10)
	require.True(t, ok)

	var p Product
	assert.Equal(t, int64(0), p.Price().Int64())

	p.SetPrice(wei)
	assert.Equal(t, wei.String(), p.PriceWei)
	assert.Equal(t, "123456.789", p.PriceEther)
	assert.Equal(t, wei, p.Price())

	p.Price().SetInt64(1)
	wei.SetInt64(2)
	assert.Equal(t, "123456789000000000000000", p.Price().String(), "price is not shared")
}
