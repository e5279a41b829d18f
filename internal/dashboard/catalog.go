// Package dashboard holds the coin catalog and the historical price
// queries behind the web dashboard.
package dashboard

import (
	"context"
	"fmt"

	apperrors "cryptoboard/internal/errors"
	"cryptoboard/internal/logger"
	"cryptoboard/internal/models"
	"cryptoboard/internal/retry"
)

// Label is how a coin appears in the select box.
func Label(coin models.Coin) string {
	return fmt.Sprintf("%s [%s]", coin.Symbol, coin.ID)
}

// Catalog maps select box labels to coin ids. It is read-only once built.
type Catalog struct {
	ids    map[string]string
	byID   map[string]string
	labels []string
}

// NewCatalog indexes coins by label in list order. Entries without an id
// are dropped; a repeated label keeps its first coin.
func NewCatalog(coins []models.Coin) *Catalog {
	c := &Catalog{
		ids:  make(map[string]string, len(coins)),
		byID: make(map[string]string, len(coins)),
	}
	for _, coin := range coins {
		if coin.ID == "" {
			continue
		}
		label := Label(coin)
		if _, ok := c.ids[label]; ok {
			continue
		}
		c.ids[label] = coin.ID
		if _, ok := c.byID[coin.ID]; !ok {
			c.byID[coin.ID] = label
		}
		c.labels = append(c.labels, label)
	}
	return c
}

// Lookup returns the coin id for a label.
func (c *Catalog) Lookup(label string) (string, error) {
	id, ok := c.ids[label]
	if !ok {
		return "", apperrors.New(apperrors.UnknownCoin, apperrors.KindFatal, fmt.Sprintf("unknown coin %q", label))
	}
	return id, nil
}

// LabelOf returns the label of a coin id.
func (c *Catalog) LabelOf(id string) (string, error) {
	label, ok := c.byID[id]
	if !ok {
		return "", apperrors.New(apperrors.UnknownCoin, apperrors.KindFatal, fmt.Sprintf("unknown coin id %q", id))
	}
	return label, nil
}

// Labels returns the labels in the order the coin list gave them.
func (c *Catalog) Labels() []string {
	out := make([]string, len(c.labels))
	copy(out, c.labels)
	return out
}

func (c *Catalog) Len() int {
	return len(c.labels)
}

// Map returns a copy of the label to id mapping.
func (c *Catalog) Map() map[string]string {
	out := make(map[string]string, len(c.ids))
	for k, v := range c.ids {
		out[k] = v
	}
	return out
}

// BuildCatalog fetches the coin list under policy. Transient failures are
// retried; the last error is returned once the budget is spent.
func BuildCatalog(ctx context.Context, source MarketData, policy retry.Policy, log logger.Interface) (*Catalog, error) {
	log.Info("collecting list of available coins")

	if policy.OnRetry == nil {
		policy.OnRetry = func(attempt int, err error) {
			log.Warn("coin list unavailable, retrying",
				logger.NewField("attempt", attempt),
				logger.NewField("backoff", policy.Backoff.String()),
				logger.NewField("error", err.Error()),
			)
		}
	}

	coins, err := retry.Value(ctx, policy, source.CoinsList)
	if err != nil {
		return nil, err
	}

	catalog := NewCatalog(coins)
	if catalog.Len() == 0 {
		return nil, apperrors.New(apperrors.EmptySeries, apperrors.KindFatal, "coin list is empty")
	}
	log.Info("coin catalog ready", logger.NewField("coins", catalog.Len()))
	return catalog, nil
}
