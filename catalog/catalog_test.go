package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swanchain/go-swan-sdk/models"
)

type fakeLister struct {
	list []models.HardwareConfig
	err  error
}

func (f *fakeLister) HardwareList(context.Context) ([]models.HardwareConfig, error) {
	return f.list, f.err
}

func testHardware() []models.HardwareConfig {
	return []models.HardwareConfig{
		{ID: 0, Name: "C1ae.small", Type: "CPU", Region: []string{"North Carolina-US"}, Price: "0.0", Status: "available"},
		{ID: 1, Name: "C1ae.medium", Type: "CPU", Region: []string{"Quebec-CA", "North Carolina-US"}, Price: "1.5", Status: "available"},
		{ID: 12, Name: "G1ae.small", Type: "GPU", Region: []string{"Quebec-CA"}, Price: "10", Status: "unavailable"},
		{ID: 13, Name: "G1ae.global", Type: "GPU", Region: []string{"global"}, Price: "12.25", Status: "unavailable"},
	}
}

func TestResolveAndPriceTotal(t *testing.T) {
	c, err := NewFromList(testHardware())
	require.NoError(t, err)

	for _, hw := range testHardware() {
		id, err := c.Resolve(hw.Name)
		require.NoError(t, err)
		assert.Equal(t, hw.ID, id)

		price, err := c.Price(hw.Name)
		require.NoError(t, err)
		assert.True(t, price.Equal(decimal.RequireFromString(hw.Price)))

		byID, err := c.PriceByID(hw.ID)
		require.NoError(t, err)
		assert.True(t, byID.Equal(price))
	}

	_, err = c.Resolve("X9.huge")
	assert.True(t, errors.Is(err, models.ErrUnknownInstanceType))
	_, err = c.Price("X9.huge")
	assert.True(t, errors.Is(err, models.ErrUnknownInstanceType))
	_, err = c.PriceByID(99)
	assert.True(t, errors.Is(err, models.ErrUnknownInstanceType))
}

func TestSupportsRegion(t *testing.T) {
	c, err := NewFromList(testHardware())
	require.NoError(t, err)

	for _, hw := range testHardware() {
		ok, err := c.SupportsRegion(hw.Name, "global")
		require.NoError(t, err)
		assert.Equal(t, hw.Status == "available", ok, hw.Name)

		for _, r := range []string{"Quebec-CA", "North Carolina-US", "Tokyo-JP"} {
			ok, err := c.SupportsRegion(hw.Name, r)
			require.NoError(t, err)
			assert.Equal(t, contains(hw.Region, r), ok, "%s in %s", hw.Name, r)
		}
	}

	_, err = c.SupportsRegion("X9.huge", "global")
	assert.True(t, errors.Is(err, models.ErrUnknownInstanceType))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestRefreshReplacesSnapshot(t *testing.T) {
	lister := &fakeLister{list: testHardware()[:1]}
	c := New(lister)

	_, err := c.Resolve("C1ae.small")
	assert.True(t, errors.Is(err, models.ErrUnknownInstanceType))

	require.NoError(t, c.Refresh(context.Background()))
	id, err := c.Resolve("C1ae.small")
	require.NoError(t, err)
	assert.Equal(t, 0, id)

	lister.list = testHardware()[1:]
	require.NoError(t, c.Refresh(context.Background()))
	_, err = c.Resolve("C1ae.small")
	assert.True(t, errors.Is(err, models.ErrUnknownInstanceType))
	assert.Len(t, c.List(), 3)
}

func TestRefreshFailureKeepsOldSnapshot(t *testing.T) {
	lister := &fakeLister{list: testHardware()}
	c := New(lister)
	require.NoError(t, c.Refresh(context.Background()))

	lister.list = []models.HardwareConfig{{ID: 5, Name: "bad", Price: "not-a-number"}}
	assert.Error(t, c.Refresh(context.Background()))
	assert.Len(t, c.List(), 4)

	lister.err = errors.New("orchestrator down")
	assert.Error(t, c.Refresh(context.Background()))
	_, err := c.Resolve("G1ae.small")
	assert.NoError(t, err)
}

func TestAvailable(t *testing.T) {
	c, err := NewFromList(testHardware())
	require.NoError(t, err)
	assert.Len(t, c.Available("global"), 2)
	assert.Len(t, c.Available("Quebec-CA"), 2)
}

func TestConcurrentRefreshAndResolve(t *testing.T) {
	c := New(&fakeLister{list: testHardware()})
	require.NoError(t, c.Refresh(context.Background()))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = c.Refresh(context.Background())
		}()
		go func() {
			defer wg.Done()
			_, err := c.Price("C1ae.medium")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}

func TestSpecOf(t *testing.T) {
	spec, ok := SpecOf("C1ae.small")
	require.True(t, ok)
	assert.Equal(t, "2 vCPU, 16 GiB", spec.String())

	spec, ok = SpecOf("P1ae.large")
	require.True(t, ok)
	assert.Equal(t, "12 vCPU, 128 GiB, 1x Nvidia H100", spec.String())

	_, ok = SpecOf("X9.huge")
	assert.False(t, ok)
}
