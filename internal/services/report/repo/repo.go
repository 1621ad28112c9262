// Package repo provides postgres access for the daily report
package repo

import (
	"context"
	"time"

	"pulseboard/internal/core/chat"
	"pulseboard/internal/core/window"
	"pulseboard/internal/modkit/repokit"
	perr "pulseboard/internal/platform/errors"
)

// KPIRow carries the window counters from one query
type KPIRow struct {
	TotalMsgs   int
	UniqueUsers int
	Replies     int
	WithLinks   int
}

// Repo is the minimal record-source surface for the report
type Repo interface {
	KPI(ctx context.Context, w window.Window, scope window.Scope) (KPIRow, error)
	Batch(ctx context.Context, w window.Window, scope window.Scope) ([]chat.Message, error)

	// TopChat returns the busiest chat id in the window, "" when the window is empty
	TopChat(ctx context.Context, w window.Window) (string, error)
}

type (
	// PG is a binder that can bind the repo to a Queryer or TxRunner
	PG struct{}
	// queries implements the Repo interface
	queries struct{ q repokit.Queryer }
)

// NewPG returns a binder that can bind the repo to a Queryer or TxRunner
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind wires a Queryer to the repo
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

func (r *queries) KPI(ctx context.Context, w window.Window, scope window.Scope) (KPIRow, error) {
	const sql = `
select
  count(*)::int as total_msgs,
  count(distinct user_id)::int as unique_users,
  count(*) filter (where reply_to_message_id is not null)::int as replies,
  count(*) filter (where text ilike '%http%')::int as with_links
from messages
where sent_at >= $1 and sent_at < $2
and ($3 = '' or chat_id::text = $3)
`
	var out KPIRow
	row := r.q.QueryRow(ctx, sql, w.Since, w.Until, scope.ChatID())
	if err := row.Scan(&out.TotalMsgs, &out.UniqueUsers, &out.Replies, &out.WithLinks); err != nil {
		return KPIRow{}, perr.FromPostgres(err, "report kpi query failed")
	}
	return out, nil
}

func (r *queries) Batch(ctx context.Context, w window.Window, scope window.Scope) ([]chat.Message, error) {
	const sql = `
select
  m.message_id::text,
  m.chat_id::text,
  m.user_id::text,
  m.sent_at,
  m.text,
  m.reply_to_message_id::text,
  nullif(trim(u.username), ''),
  nullif(trim(u.first_name), ''),
  nullif(trim(u.last_name), '')
from messages m
left join users u on u.id = m.user_id
where m.sent_at >= $1 and m.sent_at < $2
and ($3 = '' or m.chat_id::text = $3)
order by m.sent_at asc
`
	rows, err := r.q.Query(ctx, sql, w.Since, w.Until, scope.ChatID())
	if err != nil {
		return nil, perr.FromPostgres(err, "report batch query failed")
	}
	defer rows.Close()

	var out []chat.Message
	for rows.Next() {
		var m chat.Message
		var sentAt time.Time
		if err := rows.Scan(
			&m.ID, &m.ChatID, &m.AuthorID, &sentAt, &m.Text, &m.ReplyTo,
			&m.Author.Username, &m.Author.FirstName, &m.Author.LastName,
		); err != nil {
			return nil, perr.FromPostgres(err, "report batch scan failed")
		}
		m.SentAt = sentAt.UTC()
		m.Author.ID = m.AuthorID
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, perr.FromPostgres(err, "report batch rows failed")
	}
	return out, nil
}

func (r *queries) TopChat(ctx context.Context, w window.Window) (string, error) {
	const sql = `
select chat_id::text
from messages
where sent_at >= $1 and sent_at < $2
group by chat_id
order by count(*) desc
limit 1
`
	rows, err := r.q.Query(ctx, sql, w.Since, w.Until)
	if err != nil {
		return "", perr.FromPostgres(err, "report top chat query failed")
	}
	defer rows.Close()
	if !rows.Next() {
		return "", rows.Err()
	}
	var id string
	if err := rows.Scan(&id); err != nil {
		return "", perr.FromPostgres(err, "report top chat scan failed")
	}
	return id, rows.Err()
}
