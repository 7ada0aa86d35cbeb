// Package ingest polls the public killmail feed and lands new kills in the
// store, queueing background re-analysis for the pilots involved.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/veldspar/intelboard/internal/models"
	"github.com/veldspar/intelboard/internal/services"
	"github.com/veldspar/intelboard/internal/store"
)

const fetchMaxTries = 5

// feedEnvelope is the long-poll response shape. A null package means the
// feed had nothing new within the poll window.
type feedEnvelope struct {
	Package *feedKillmail `json:"package"`
}

type feedKillmail struct {
	KillID   int64 `json:"killID"`
	Killmail struct {
		SolarSystemID int64     `json:"solar_system_id"`
		KillmailTime  time.Time `json:"killmail_time"`
		Victim        struct {
			CharacterID   int64 `json:"character_id"`
			CorporationID int64 `json:"corporation_id"`
			ShipTypeID    int64 `json:"ship_type_id"`
		} `json:"victim"`
		Attackers []struct {
			CharacterID int64 `json:"character_id"`
			FinalBlow   bool  `json:"final_blow"`
		} `json:"attackers"`
	} `json:"killmail"`
	Zkb struct {
		Hash       string  `json:"hash"`
		TotalValue float64 `json:"totalValue"`
	} `json:"zkb"`
}

// Option configures optional poller collaborators.
type Option func(*Poller)

// WithClient replaces the HTTP client, mainly for tests.
func WithClient(c *http.Client) Option { return func(p *Poller) { p.client = c } }

// WithNotify registers a callback invoked after each stored killmail.
func WithNotify(fn func()) Option { return func(p *Poller) { p.notify = fn } }

// Poller drives the feed loop. Each poller identifies itself to the feed
// with a stable queue id so the feed can resume from where it left off.
type Poller struct {
	url      string
	queueID  string
	interval time.Duration
	client   *http.Client
	store    *store.Store
	analyzer *services.Analyzer
	notify   func()
	log      *zap.SugaredLogger
}

func New(feedURL string, interval time.Duration, st *store.Store, analyzer *services.Analyzer, opts ...Option) *Poller {
	p := &Poller{
		url:      feedURL,
		queueID:  uuid.NewString(),
		interval: interval,
		client:   &http.Client{Timeout: 30 * time.Second},
		store:    st,
		analyzer: analyzer,
		log:      zap.S().Named("ingest"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run polls until ctx is cancelled. Feed errors are retried with backoff
// inside each fetch; a fetch that exhausts its retries only costs one poll
// window.
func (p *Poller) Run(ctx context.Context) {
	p.log.Infow("ingest poller started", "url", p.url, "queue_id", p.queueID)

	for {
		fk, err := p.fetch(ctx)
		if ctx.Err() != nil {
			p.log.Info("ingest poller stopped")
			return
		}
		switch {
		case err != nil:
			p.log.Warnw("feed fetch failed", "error", err)
		case fk != nil:
			p.handle(ctx, fk)
			continue // drain the feed before idling
		}

		select {
		case <-time.After(p.interval):
		case <-ctx.Done():
			p.log.Info("ingest poller stopped")
			return
		}
	}
}

func (p *Poller) fetch(ctx context.Context) (*feedKillmail, error) {
	op := func() (*feedKillmail, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url+"?queueID="+p.queueID, nil)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		resp, err := p.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("feed returned %s", resp.Status)
		}

		var env feedEnvelope
		if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
			return nil, err
		}
		return env.Package, nil
	}

	return backoff.Retry(ctx, op,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(fetchMaxTries),
	)
}

func (p *Poller) handle(ctx context.Context, fk *feedKillmail) {
	km := convert(fk)
	if err := p.store.Killmails().Insert(ctx, km); err != nil {
		p.log.Errorw("failed to store killmail", "killmail", km.ID, "error", err)
		return
	}
	p.log.Debugw("killmail stored",
		"killmail", km.ID, "system", km.SolarSystemID, "value", km.Value)

	// Queue background re-scores for both pilots. A full pool queue drops
	// these silently; the next kill triggers another attempt.
	if km.VictimCharacterID != 0 {
		_ = p.analyzer.RefreshCharacter(km.VictimCharacterID)
	}
	if km.FinalBlowCharacterID != 0 {
		_ = p.analyzer.RefreshCharacter(km.FinalBlowCharacterID)
	}

	if p.notify != nil {
		p.notify()
	}
}

func convert(fk *feedKillmail) *models.Killmail {
	var finalBlow int64
	for _, a := range fk.Killmail.Attackers {
		if a.FinalBlow {
			finalBlow = a.CharacterID
			break
		}
	}
	return &models.Killmail{
		ID:                   fk.KillID,
		Hash:                 fk.Zkb.Hash,
		VictimCharacterID:    fk.Killmail.Victim.CharacterID,
		VictimCorporationID:  fk.Killmail.Victim.CorporationID,
		FinalBlowCharacterID: finalBlow,
		ShipTypeID:           fk.Killmail.Victim.ShipTypeID,
		SolarSystemID:        fk.Killmail.SolarSystemID,
		AttackerCount:        len(fk.Killmail.Attackers),
		Value:                fk.Zkb.TotalValue,
		OccurredAt:           fk.Killmail.KillmailTime,
	}
}
