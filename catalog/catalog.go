package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/filswan/go-swan-lib/logs"
	"github.com/shopspring/decimal"
	"github.com/swanchain/go-swan-sdk/constants"
	"github.com/swanchain/go-swan-sdk/models"
	"go.uber.org/atomic"
)

// Lister fetches the hardware list from the orchestrator.
type Lister interface {
	HardwareList(ctx context.Context) ([]models.HardwareConfig, error)
}

type snapshot struct {
	list   []models.HardwareConfig
	byName map[string]models.HardwareConfig
	byID   map[int]models.HardwareConfig
	prices map[string]decimal.Decimal
}

// Catalog holds an immutable hardware snapshot that Refresh swaps as a whole.
type Catalog struct {
	lister Lister
	snap   atomic.Pointer[snapshot]
}

func New(lister Lister) *Catalog {
	c := &Catalog{lister: lister}
	c.snap.Store(&snapshot{
		byName: map[string]models.HardwareConfig{},
		byID:   map[int]models.HardwareConfig{},
		prices: map[string]decimal.Decimal{},
	})
	return c
}

// NewFromList builds a catalog from a fixed list, without a remote lister.
func NewFromList(list []models.HardwareConfig) (*Catalog, error) {
	c := New(nil)
	if err := c.replace(list); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) Refresh(ctx context.Context) error {
	if c.lister == nil {
		return fmt.Errorf("catalog has no hardware source")
	}
	list, err := c.lister.HardwareList(ctx)
	if err != nil {
		logs.GetLogger().Errorf("Failed refresh hardware catalog, error: %v", err)
		return err
	}
	if err = c.replace(list); err != nil {
		return err
	}
	logs.GetLogger().Debugf("hardware catalog refreshed, %d entries", len(list))
	return nil
}

func (c *Catalog) replace(list []models.HardwareConfig) error {
	next := &snapshot{
		list:   make([]models.HardwareConfig, 0, len(list)),
		byName: make(map[string]models.HardwareConfig, len(list)),
		byID:   make(map[int]models.HardwareConfig, len(list)),
		prices: make(map[string]decimal.Decimal, len(list)),
	}
	for _, hw := range list {
		price, err := decimal.NewFromString(strings.TrimSpace(hw.Price))
		if err != nil {
			return fmt.Errorf("hardware %s has invalid price %q: %w", hw.Name, hw.Price, err)
		}
		next.list = append(next.list, hw)
		next.byName[hw.Name] = hw
		next.byID[hw.ID] = hw
		next.prices[hw.Name] = price
	}
	c.snap.Store(next)
	return nil
}

func (c *Catalog) Lookup(instanceType string) (models.HardwareConfig, error) {
	hw, ok := c.snap.Load().byName[instanceType]
	if !ok {
		return models.HardwareConfig{}, fmt.Errorf("%q: %w", instanceType, models.ErrUnknownInstanceType)
	}
	return hw, nil
}

func (c *Catalog) Resolve(instanceType string) (int, error) {
	hw, err := c.Lookup(instanceType)
	if err != nil {
		return 0, err
	}
	return hw.ID, nil
}

// Price is the hourly price in display units.
func (c *Catalog) Price(instanceType string) (decimal.Decimal, error) {
	price, ok := c.snap.Load().prices[instanceType]
	if !ok {
		return decimal.Zero, fmt.Errorf("%q: %w", instanceType, models.ErrUnknownInstanceType)
	}
	return price, nil
}

func (c *Catalog) PriceByID(hardwareID int) (decimal.Decimal, error) {
	snap := c.snap.Load()
	hw, ok := snap.byID[hardwareID]
	if !ok {
		return decimal.Zero, fmt.Errorf("hardware id %d: %w", hardwareID, models.ErrUnknownInstanceType)
	}
	return snap.prices[hw.Name], nil
}

// SupportsRegion treats "global" as a wildcard over available hardware and matches any
// other region against the explicit region list.
func (c *Catalog) SupportsRegion(instanceType, region string) (bool, error) {
	hw, err := c.Lookup(instanceType)
	if err != nil {
		return false, err
	}
	return supportsRegion(hw, region), nil
}

func supportsRegion(hw models.HardwareConfig, region string) bool {
	if region == constants.REGION_GLOBAL {
		return hw.Status == constants.HardwareAvailable
	}
	for _, r := range hw.Region {
		if r == region {
			return true
		}
	}
	return false
}

func (c *Catalog) List() []models.HardwareConfig {
	list := c.snap.Load().list
	out := make([]models.HardwareConfig, len(list))
	copy(out, list)
	return out
}

// Available lists the hardware usable in region.
func (c *Catalog) Available(region string) []models.HardwareConfig {
	var out []models.HardwareConfig
	for _, hw := range c.snap.Load().list {
		if supportsRegion(hw, region) {
			out = append(out, hw)
		}
	}
	return out
}
