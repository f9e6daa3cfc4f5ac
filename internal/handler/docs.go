package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func RegisterDocs(r *gin.Engine) {
	r.GET("/docs", func(c *gin.Context) {
		c.Header("Content-Type", "text/markdown; charset=utf-8")
		c.String(http.StatusOK, `# Trading Notes API

Trade ledger with per-user statistics, a P&L calendar, and admin-gated
AI analysis with cost accounting.

## Auth

All /api/* routes except /api/auth/* require a Bearer token from
/api/auth/login. Health endpoints and this page are public.

- POST /api/auth/register
- POST /api/auth/login

## Trades

- GET /api/trades
- POST /api/trades
- PUT /api/trades/:id
- DELETE /api/trades/:id

Trades are long, short (entered on the sell leg, covered on the buy
leg), or profit_only imports carrying just a result.

## Statistics & Calendar

- GET /api/statistics
- GET /api/calendar?date=YYYY-MM-DD&tz=Area/City

## AI (admin only)

- POST /api/ai/analyze        {"analysisType": "general|risk|psychology|strategy"}
- GET /api/ai/costs           month-to-date and last-7-days spend
- GET /api/ai/history
- DELETE /api/ai/history/:id

## Admin (admin only)

- GET /api/admin/users
- DELETE /api/admin/users/:id

## Health

- GET /healthz
- GET /readyz
`)
	})
}
