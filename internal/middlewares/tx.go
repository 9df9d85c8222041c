package middlewares

import (
	"bytes"
	"context"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/gw-messenger/internal/logger"
)

// TxMiddleware runs the handler inside a database transaction. The
// transaction is committed when the handler answers with a status below 400
// and rolled back otherwise or on panic.
//
// The handler's response is held back until the transaction is resolved, so a
// failed commit reaches the client as 500 instead of the handler's answer.
// Hooks registered with OnCommit run only after a successful commit.
func TxMiddleware(db *sqlx.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tx, err := db.BeginTxx(r.Context(), nil)
			if err != nil {
				logger.Log.Errorw("failed to begin transaction", "error", err)
				writeError(w, http.StatusInternalServerError, "internal server error")
				return
			}

			defer func() {
				if rec := recover(); rec != nil {
					_ = tx.Rollback()
					panic(rec)
				}
			}()

			hooks := &commitHooks{}
			ctx := context.WithValue(setTxToContext(r.Context(), tx), commitHooksKey{}, hooks)

			buf := &bufferedWriter{w: w, statusCode: http.StatusOK}
			next.ServeHTTP(buf, r.WithContext(ctx))

			if buf.statusCode >= http.StatusBadRequest {
				if err := tx.Rollback(); err != nil {
					logger.Log.Errorw("failed to rollback transaction", "error", err)
				}
				buf.flush()
				return
			}

			if err := tx.Commit(); err != nil {
				logger.Log.Errorw("failed to commit transaction", "error", err)
				w.Header().Del("Content-Length")
				writeError(w, http.StatusInternalServerError, "internal server error")
				return
			}

			buf.flush()
			for _, fn := range hooks.fns {
				fn()
			}
		})
	}
}

type txKey struct{}

type commitHooksKey struct{}

type commitHooks struct {
	fns []func()
}

func setTxToContext(ctx context.Context, tx *sqlx.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// GetTxFromContext returns the request transaction or nil.
func GetTxFromContext(ctx context.Context) *sqlx.Tx {
	tx, _ := ctx.Value(txKey{}).(*sqlx.Tx)
	return tx
}

// OnCommit defers fn until the request transaction in ctx has committed. fn is
// dropped if the transaction rolls back. Without a transaction fn runs
// immediately.
func OnCommit(ctx context.Context, fn func()) {
	hooks, ok := ctx.Value(commitHooksKey{}).(*commitHooks)
	if !ok {
		fn()
		return
	}
	hooks.fns = append(hooks.fns, fn)
}

// bufferedWriter holds the status and body of a response until flush.
// Headers go straight to the underlying writer's header map.
type bufferedWriter struct {
	w           http.ResponseWriter
	statusCode  int
	wroteHeader bool
	body        bytes.Buffer
}

func (b *bufferedWriter) Header() http.Header {
	return b.w.Header()
}

func (b *bufferedWriter) WriteHeader(code int) {
	if b.wroteHeader {
		return
	}
	b.statusCode = code
	b.wroteHeader = true
}

func (b *bufferedWriter) Write(p []byte) (int, error) {
	b.wroteHeader = true
	return b.body.Write(p)
}

func (b *bufferedWriter) flush() {
	b.w.WriteHeader(b.statusCode)
	if b.body.Len() > 0 {
		if _, err := b.w.Write(b.body.Bytes()); err != nil {
			logger.Log.Warnw("failed to write response", "error", err)
		}
	}
}
