package provider

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/inkstream/recokit/core"
)

// SQLiteProvider 对接博客平台的 SQLite 库，实现三个数据视图。
// 驱动使用纯 Go 的 modernc.org/sqlite，无 cgo 依赖。
type SQLiteProvider struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite 打开（或创建）SQLite 库并建表。
func OpenSQLite(path string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	p := &SQLiteProvider{db: db, now: time.Now}
	if err := p.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return p, nil
}

func (p *SQLiteProvider) Close() error { return p.db.Close() }

func (p *SQLiteProvider) migrate() error {
	const schema = `
CREATE TABLE IF NOT EXISTS blogs (
	id          INTEGER PRIMARY KEY,
	title       TEXT NOT NULL,
	body        TEXT NOT NULL DEFAULT '',
	category    TEXT NOT NULL DEFAULT '',
	tags        TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL DEFAULT 'draft'
);
CREATE TABLE IF NOT EXISTS interactions (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id     INTEGER NOT NULL,
	item_id     INTEGER NOT NULL,
	kind        TEXT NOT NULL,
	rating      REAL NOT NULL,
	created_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_interactions_user ON interactions(user_id);
CREATE INDEX IF NOT EXISTS idx_interactions_item ON interactions(item_id, created_at);
`
	_, err := p.db.Exec(schema)
	return err
}

// AddDocument 写入一篇文章。tags 用逗号分隔存储。
func (p *SQLiteProvider) AddDocument(ctx context.Context, doc core.Document, published bool) error {
	status := "draft"
	if published {
		status = "published"
	}
	_, err := p.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO blogs (id, title, body, category, tags, status) VALUES (?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.Title, doc.Body, doc.Category, strings.Join(doc.Tags, ","), status)
	return err
}

// RecordInteraction 追加一条交互。rating <= 0 时按类型取默认评分。
func (p *SQLiteProvider) RecordInteraction(ctx context.Context, userID, itemID int64, kind core.InteractionKind, rating float64) error {
	if rating <= 0 {
		rating = kind.DefaultRating()
	}
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO interactions (user_id, item_id, kind, rating, created_at) VALUES (?, ?, ?, ?, ?)`,
		userID, itemID, string(kind), rating, p.now().Unix())
	return err
}

func (p *SQLiteProvider) PublishedDocuments(ctx context.Context) ([]core.Document, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, title, body, category, tags FROM blogs WHERE status = 'published' ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []core.Document
	for rows.Next() {
		var doc core.Document
		var tags string
		if err := rows.Scan(&doc.ID, &doc.Title, &doc.Body, &doc.Category, &tags); err != nil {
			return nil, err
		}
		if tags != "" {
			for _, t := range strings.Split(tags, ",") {
				if t = strings.TrimSpace(t); t != "" {
					doc.Tags = append(doc.Tags, t)
				}
			}
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func (p *SQLiteProvider) AllInteractions(ctx context.Context) ([]core.Interaction, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT user_id, item_id, kind, rating, created_at FROM interactions ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []core.Interaction
	for rows.Next() {
		var r core.Interaction
		var kind string
		var createdAt int64
		if err := rows.Scan(&r.UserID, &r.ItemID, &kind, &r.Rating, &createdAt); err != nil {
			return nil, err
		}
		r.Kind = core.InteractionKind(kind)
		r.CreatedAt = time.Unix(createdAt, 0)
		records = append(records, r)
	}
	return records, rows.Err()
}

func (p *SQLiteProvider) UserItemIDs(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT DISTINCT item_id FROM interactions WHERE user_id = ? ORDER BY item_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (p *SQLiteProvider) EngagementStats(ctx context.Context, itemIDs []int64, window time.Duration) ([]core.EngagementStats, error) {
	// 窗口只截断互动类计数（嵌进各自的 CASE 分支）；浏览计终身总量
	var args []any
	windowCond := ""
	if window > 0 {
		windowCond = " AND created_at >= ?"
		cutoff := p.now().Add(-window).Unix()
		args = append(args, cutoff, cutoff, cutoff)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`SELECT item_id,
	SUM(CASE WHEN kind = 'like'%[1]s THEN 1 ELSE 0 END),
	SUM(CASE WHEN kind = 'comment'%[1]s THEN 1 ELSE 0 END),
	SUM(CASE WHEN kind = 'bookmark'%[1]s THEN 1 ELSE 0 END),
	SUM(CASE WHEN kind = 'view' THEN 1 ELSE 0 END)
FROM interactions`, windowCond))

	if len(itemIDs) > 0 {
		placeholders := strings.Repeat("?,", len(itemIDs))
		sb.WriteString(" WHERE item_id IN (" + placeholders[:len(placeholders)-1] + ")")
		for _, id := range itemIDs {
			args = append(args, id)
		}
	}
	sb.WriteString(" GROUP BY item_id ORDER BY item_id")

	rows, err := p.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.EngagementStats
	for rows.Next() {
		var s core.EngagementStats
		if err := rows.Scan(&s.ItemID, &s.Likes, &s.Comments, &s.Bookmarks, &s.Views); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

var (
	_ core.CorpusProvider      = (*SQLiteProvider)(nil)
	_ core.InteractionProvider = (*SQLiteProvider)(nil)
	_ core.EngagementProvider  = (*SQLiteProvider)(nil)
)
