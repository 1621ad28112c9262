// Package repo provides postgres access for the overview facets
package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pulseboard/internal/core/chat"
	"pulseboard/internal/core/window"
	"pulseboard/internal/modkit/repokit"
	perr "pulseboard/internal/platform/errors"
)

// previewChunkSize bounds the id list of a single root-preview lookup
const previewChunkSize = 1000

// KPIRow carries the window counters from one query
type KPIRow struct {
	TotalMsgs   int
	UniqueUsers int
	Replies     int
	WithLinks   int
}

// AuthorCount is one author with their message count
type AuthorCount struct {
	Author chat.Author
	Cnt    int
}

// ChatRow is one chat ranked by message count
type ChatRow struct {
	ChatID string
	Title  string
	Cnt    int
}

// Repo is the minimal record-source surface for the overview
type Repo interface {
	KPI(ctx context.Context, w window.Window, scope window.Scope) (KPIRow, error)
	Batch(ctx context.Context, w window.Window, scope window.Scope) ([]chat.Message, error)
	TopAuthors(ctx context.Context, w window.Window, scope window.Scope, limit int) ([]AuthorCount, error)
	RootPreviews(ctx context.Context, w window.Window, scope window.Scope, ids []string) (map[string]string, error)
	ChatRanking(ctx context.Context, w window.Window, limit int) ([]ChatRow, error)
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
		return KPIRow{}, perr.FromPostgres(err, "overview kpi query failed")
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
		return nil, perr.FromPostgres(err, "overview batch query failed")
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
			return nil, perr.FromPostgres(err, "overview batch scan failed")
		}
		m.SentAt = sentAt.UTC()
		m.Author.ID = m.AuthorID
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, perr.FromPostgres(err, "overview batch rows failed")
	}
	return out, nil
}

func (r *queries) TopAuthors(
	ctx context.Context,
	w window.Window,
	scope window.Scope,
	limit int,
) ([]AuthorCount, error) {
	const sql = `
select
  m.user_id::text,
  nullif(trim(u.username), ''),
  nullif(trim(u.first_name), ''),
  nullif(trim(u.last_name), ''),
  count(*)::int as cnt
from messages m
left join users u on u.id = m.user_id
where m.sent_at >= $1 and m.sent_at < $2
and ($3 = '' or m.chat_id::text = $3)
group by 1, 2, 3, 4
order by cnt desc
limit $4
`
	rows, err := r.q.Query(ctx, sql, w.Since, w.Until, scope.ChatID(), limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "overview top authors query failed")
	}
	defer rows.Close()

	var out []AuthorCount
	for rows.Next() {
		var ac AuthorCount
		if err := rows.Scan(
			&ac.Author.ID, &ac.Author.Username, &ac.Author.FirstName, &ac.Author.LastName, &ac.Cnt,
		); err != nil {
			return nil, perr.FromPostgres(err, "overview top authors scan failed")
		}
		out = append(out, ac)
	}
	return out, rows.Err()
}

// RootPreviews resolves raw preview text for the given root ids, restricted to
// the window, in bounded-size chunks. Missing ids are simply absent
func (r *queries) RootPreviews(
	ctx context.Context,
	w window.Window,
	scope window.Scope,
	ids []string,
) (map[string]string, error) {
	out := make(map[string]string, len(ids))
	for start := 0; start < len(ids); start += previewChunkSize {
		end := start + previewChunkSize
		if end > len(ids) {
			end = len(ids)
		}
		chunk := ids[start:end]

		params := make([]string, len(chunk))
		args := make([]any, 0, len(chunk)+3)
		args = append(args, w.Since, w.Until, scope.ChatID())
		for i, id := range chunk {
			params[i] = fmt.Sprintf("$%d", i+4)
			args = append(args, id)
		}
		sql := `
select message_id::text, coalesce(nullif(trim(text), ''), '[no text]')
from messages
where sent_at >= $1 and sent_at < $2
and ($3 = '' or chat_id::text = $3)
and message_id::text in (` + strings.Join(params, ", ") + `)
`
		rows, err := r.q.Query(ctx, sql, args...)
		if err != nil {
			return nil, perr.FromPostgres(err, "overview root previews query failed")
		}
		for rows.Next() {
			var id, text string
			if err := rows.Scan(&id, &text); err != nil {
				rows.Close()
				return nil, perr.FromPostgres(err, "overview root previews scan failed")
			}
			out[id] = text
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, perr.FromPostgres(err, "overview root previews rows failed")
		}
	}
	return out, nil
}

func (r *queries) ChatRanking(ctx context.Context, w window.Window, limit int) ([]ChatRow, error) {
	const sql = `
select
  m.chat_id::text,
  coalesce(nullif(trim(c.title), ''), m.chat_id::text) as title,
  count(*)::int as cnt
from messages m
left join chats c on c.id = m.chat_id
where m.sent_at >= $1 and m.sent_at < $2
group by 1, 2
order by cnt desc
limit $3
`
	rows, err := r.q.Query(ctx, sql, w.Since, w.Until, limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "overview chat ranking query failed")
	}
	defer rows.Close()

	var out []ChatRow
	for rows.Next() {
		var cr ChatRow
		if err := rows.Scan(&cr.ChatID, &cr.Title, &cr.Cnt); err != nil {
			return nil, perr.FromPostgres(err, "overview chat ranking scan failed")
		}
		out = append(out, cr)
	}
	return out, rows.Err()
}
