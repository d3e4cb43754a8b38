package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/AnthoniusHendriyanto/askastro-service/db"
	"github.com/AnthoniusHendriyanto/askastro-service/internal/astro/domain"
	"github.com/AnthoniusHendriyanto/askastro-service/internal/cache"
	apperr "github.com/AnthoniusHendriyanto/askastro-service/internal/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const foreignKeyViolation = "23503"

type PostgresRepository struct {
	db    db.DBTX
	reads *cache.QueryLayer
}

func NewPostgresRepository(conn db.DBTX, reads *cache.QueryLayer) *PostgresRepository {
	return &PostgresRepository{db: conn, reads: reads}
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	rows, err := r.reads.CachedRead(ctx, domain.UserCacheKey(email), domain.UserCacheTTL, `
		SELECT email, name, credits, dob, dob_collected, created_at, updated_at
		FROM users
		WHERE email = $1
		LIMIT 1;
	`, email)
	if err != nil || len(rows) == 0 {
		return nil, err
	}

	row := rows[0]
	return &domain.User{
		Email:        asString(row["email"]),
		Name:         asString(row["name"]),
		Credits:      asInt(row["credits"]),
		DOB:          asTimePtr(row["dob"]),
		DOBCollected: asBool(row["dob_collected"]),
		CreatedAt:    asTime(row["created_at"]),
		UpdatedAt:    asTime(row["updated_at"]),
	}, nil
}

func (r *PostgresRepository) GetSession(ctx context.Context, email string) (*domain.User, error) {
	rows, err := r.reads.CachedRead(ctx, domain.SessionCacheKey(email), domain.SessionCacheTTL,
		`SELECT email, name, credits, dob_collected, created_at FROM users WHERE email = $1 LIMIT 1;`, email)
	if err != nil || len(rows) == 0 {
		return nil, err
	}

	row := rows[0]
	return &domain.User{
		Email:        asString(row["email"]),
		Name:         asString(row["name"]),
		Credits:      asInt(row["credits"]),
		DOBCollected: asBool(row["dob_collected"]),
		CreatedAt:    asTime(row["created_at"]),
	}, nil
}

func (r *PostgresRepository) GetCredits(ctx context.Context, email string) (int, error) {
	var credits int
	err := r.db.QueryRow(ctx, `SELECT credits FROM users WHERE email = $1`, email).Scan(&credits)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, apperr.E("repo.get_credits", apperr.ErrUserNotFound, nil)
	}
	if err != nil {
		return 0, apperr.Store("repo.get_credits", err)
	}
	return credits, nil
}

func (r *PostgresRepository) GetDOBStatus(ctx context.Context, email string) (*domain.DOBStatus, error) {
	return r.dobStatus(ctx, domain.DOBCheckCacheKey(email), domain.DOBCheckCacheTTL, email)
}

func (r *PostgresRepository) GetCurrentDOB(ctx context.Context, email string) (*domain.DOBStatus, error) {
	return r.dobStatus(ctx, domain.UserDOBCheckCacheKey(email), domain.UserDOBCheckCacheTTL, email)
}

func (r *PostgresRepository) dobStatus(ctx context.Context, key string, ttl time.Duration, email string) (*domain.DOBStatus, error) {
	rows, err := r.reads.CachedRead(ctx, key, ttl,
		`SELECT dob, dob_collected FROM users WHERE email = $1 LIMIT 1;`, email)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return &domain.DOBStatus{
		DOB:       asTimePtr(rows[0]["dob"]),
		Collected: asBool(rows[0]["dob_collected"]),
	}, nil
}

// Create inserts user unless the email already exists and reports whether a row was written.
func (r *PostgresRepository) Create(ctx context.Context, user *domain.User) (bool, error) {
	tag, err := r.reads.Write(ctx, `
		INSERT INTO users (email, name, credits, dob_collected, created_at, updated_at)
		VALUES ($1, $2, $3, FALSE, $4, $5)
		ON CONFLICT (email) DO NOTHING
	`, user.Email, user.Name, user.Credits, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PostgresRepository) UpdateDOB(ctx context.Context, email string, dob time.Time) error {
	tag, err := r.reads.Write(ctx, `
		UPDATE users
		SET dob = $1, dob_collected = TRUE, updated_at = NOW()
		WHERE email = $2
	`, dob, email)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.E("repo.update_dob", apperr.ErrUserNotFound, nil)
	}
	return nil
}

func (r *PostgresRepository) ChargeTurn(ctx context.Context, email, turnID string, cost int) (int, bool, error) {
	var (
		balance int
		charged bool
	)

	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			INSERT INTO chat_turns (email, turn_id, cost, created_at)
			VALUES ($1, $2, $3, NOW())
			ON CONFLICT (email, turn_id) DO NOTHING
		`, email, turnID, cost)
		if err != nil {
			return apperr.Store("repo.charge_turn", err)
		}

		if tag.RowsAffected() == 0 {
			balance, err = currentCredits(ctx, tx, "repo.charge_turn", email)
			return err
		}

		err = tx.QueryRow(ctx, `
			UPDATE users
			SET credits = credits - $1, updated_at = NOW()
			WHERE email = $2 AND credits >= $1
			RETURNING credits
		`, cost, email).Scan(&balance)
		if errors.Is(err, pgx.ErrNoRows) {
			if _, err := currentCredits(ctx, tx, "repo.charge_turn", email); err != nil {
				return err
			}
			return apperr.E("repo.charge_turn", apperr.ErrInsufficientCredits, nil)
		}
		if err != nil {
			return apperr.Store("repo.charge_turn", err)
		}

		charged = true
		return nil
	})
	if err != nil {
		return 0, false, asStoreError("repo.charge_turn", err)
	}
	return balance, charged, nil
}

func (r *PostgresRepository) AddCredits(ctx context.Context, email string, amount int) (int, error) {
	var balance int
	err := r.db.QueryRow(ctx, `
		UPDATE users
		SET credits = credits + $1, updated_at = NOW()
		WHERE email = $2
		RETURNING credits
	`, amount, email).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, apperr.E("repo.add_credits", apperr.ErrUserNotFound, nil)
	}
	if err != nil {
		return 0, apperr.Store("repo.add_credits", err)
	}
	return balance, nil
}

func (r *PostgresRepository) SetCredits(ctx context.Context, email string, credits int) error {
	tag, err := r.reads.Write(ctx, `
		UPDATE users
		SET credits = $1, updated_at = NOW()
		WHERE email = $2
	`, credits, email)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.E("repo.set_credits", apperr.ErrUserNotFound, nil)
	}
	return nil
}

func (r *PostgresRepository) SettleOrder(ctx context.Context, txn *domain.Transaction) (int, bool, error) {
	var (
		balance int
		applied bool
	)

	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			INSERT INTO transactions (id, user_email, package_id, credits_added, amount_usd, external_order_id, status, created_at)
			VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, $8)
			ON CONFLICT (external_order_id) WHERE status = 'completed' DO NOTHING
		`, txn.ID, txn.UserEmail, txn.PackageID, txn.CreditsAdded, txn.AmountUSD.StringFixed(2),
			txn.ExternalOrderID, string(txn.Status), txn.CreatedAt)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
				return apperr.E("repo.settle_order", apperr.ErrUserNotFound, nil)
			}
			return apperr.Store("repo.settle_order", err)
		}

		if tag.RowsAffected() == 0 {
			balance, err = currentCredits(ctx, tx, "repo.settle_order", txn.UserEmail)
			return err
		}

		err = tx.QueryRow(ctx, `
			UPDATE users
			SET credits = credits + $1, updated_at = NOW()
			WHERE email = $2
			RETURNING credits
		`, txn.CreditsAdded, txn.UserEmail).Scan(&balance)
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.E("repo.settle_order", apperr.ErrUserNotFound, nil)
		}
		if err != nil {
			return apperr.Store("repo.settle_order", err)
		}

		applied = true
		return nil
	})
	if err != nil {
		return 0, false, asStoreError("repo.settle_order", err)
	}
	return balance, applied, nil
}

func (r *PostgresRepository) IsOrderSettled(ctx context.Context, externalOrderID string) (bool, error) {
	var settled bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM transactions
			WHERE external_order_id = $1 AND status = 'completed'
		)
	`, externalOrderID).Scan(&settled)
	if err != nil {
		return false, apperr.Store("repo.is_order_settled", err)
	}
	return settled, nil
}

func (r *PostgresRepository) ListTransactions(ctx context.Context, email string) ([]domain.Transaction, error) {
	rows, err := r.reads.CachedRead(ctx, domain.TransactionsCacheKey(email), domain.TransactionsCacheTTL, `
		SELECT id::text AS id, user_email, package_id, credits_added, amount_usd::text AS amount_usd,
		       external_order_id, status, created_at
		FROM transactions
		WHERE user_email = $1
		ORDER BY created_at DESC
	`, email)
	if err != nil {
		return nil, err
	}

	txns := make([]domain.Transaction, 0, len(rows))
	for _, row := range rows {
		txns = append(txns, domain.Transaction{
			ID:              asString(row["id"]),
			UserEmail:       asString(row["user_email"]),
			PackageID:       asString(row["package_id"]),
			CreditsAdded:    asInt(row["credits_added"]),
			AmountUSD:       asDecimal(row["amount_usd"]),
			ExternalOrderID: asString(row["external_order_id"]),
			Status:          domain.TransactionStatus(asString(row["status"])),
			CreatedAt:       asTime(row["created_at"]),
		})
	}
	return txns, nil
}

func (r *PostgresRepository) InvalidateCache(keys ...string) {
	r.reads.Invalidate(keys...)
}

func currentCredits(ctx context.Context, tx pgx.Tx, op, email string) (int, error) {
	var credits int
	err := tx.QueryRow(ctx, `SELECT credits FROM users WHERE email = $1`, email).Scan(&credits)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, apperr.E(op, apperr.ErrUserNotFound, nil)
	}
	if err != nil {
		return 0, apperr.Store(op, err)
	}
	return credits, nil
}

// asStoreError keeps typed errors from the transaction body and wraps
// begin/commit failures as store errors.
func asStoreError(op string, err error) error {
	var e *apperr.Error
	if errors.As(err, &e) {
		return err
	}
	return apperr.Store(op, err)
}
