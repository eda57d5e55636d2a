package journal

import (
	"context"

	"github.com/bytedance/sonic"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/ttnghia195/trade-signal-hook/internal/models"
	"github.com/ttnghia195/trade-signal-hook/pkg/db"
)

// Pg implement db store
type Pg struct {
	db *db.PgTxManager
}

// NewPg instance
func NewPg(txm *db.PgTxManager) *Pg {
	return &Pg{db: txm}
}

func (j *Pg) Signal(ctx context.Context, sig models.Signal) (err error) {
	defer func() {
		if err != nil {
			err = errors.Wrap(err, "journal.Signal")
		}
	}()
	return j.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctxTx,
			`INSERT INTO signals (pair, rate) VALUES ($1, $2)`,
			sig.Pair, sig.Rate,
		)
		return err
	})
}

func (j *Pg) Bracket(ctx context.Context, rec models.BracketRecord) (err error) {
	defer func() {
		if err != nil {
			err = errors.Wrap(err, "journal.Bracket")
		}
	}()

	payload, err := sonic.Marshal(rec)
	if err != nil {
		return err
	}
	return j.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctxTx,
			`INSERT INTO brackets (symbol, rate, qty, failed_step, payload)
			 VALUES ($1, $2, $3, NULLIF($4, ''), $5)`,
			rec.Symbol, rec.Rate, rec.Qty, rec.FailedStep, payload,
		)
		return err
	})
}
