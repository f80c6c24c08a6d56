package snapshot

import (
	"context"
	"encoding/json"
	"time"

	"github.com/inkstream/recokit/core"
	"github.com/inkstream/recokit/index"
	"github.com/inkstream/recokit/vectorize"
)

// DefaultKeyPrefix 是快照在 Store 中的默认 key 前缀。
const DefaultKeyPrefix = "recokit:snapshot"

// 序列化格式：按关注点分 key 存放，JSON 编码。
// Go 的 float64 JSON 编码可精确往返，快照保持可人工排查。
const (
	keyMeta       = ":meta"
	keyVectorizer = ":vectorizer"
	keyContent    = ":content"
	keyCollab     = ":collab"
)

var errCorrupted = core.NewDomainError(
	core.ModuleSnapshot, core.ErrorCodeCorrupted, "snapshot: persisted data is corrupted")

type metaRecord struct {
	BuiltAt   time.Time `json:"built_at"`
	HasCollab bool      `json:"has_collab"`
}

type collabRecord struct {
	Users *index.VectorIndex `json:"users"`
	Items *index.VectorIndex `json:"items"`
}

// Save 将快照整体写入 Store。
// 任一段写入失败即返回错误；调用方按尽力而为处理（记日志、继续用内存态）。
func Save(ctx context.Context, s core.Store, prefix string, snap *Snapshot) error {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}

	meta, err := json.Marshal(metaRecord{BuiltAt: snap.BuiltAt, HasCollab: snap.HasCollab()})
	if err != nil {
		return err
	}
	model, err := json.Marshal(snap.Model)
	if err != nil {
		return err
	}
	content, err := json.Marshal(snap.Content)
	if err != nil {
		return err
	}

	if err := s.Set(ctx, prefix+keyVectorizer, model); err != nil {
		return err
	}
	if err := s.Set(ctx, prefix+keyContent, content); err != nil {
		return err
	}
	if snap.HasCollab() {
		collab, err := json.Marshal(collabRecord{Users: snap.Users, Items: snap.Items})
		if err != nil {
			return err
		}
		if err := s.Set(ctx, prefix+keyCollab, collab); err != nil {
			return err
		}
	} else {
		// 上一代的协同段不能留给新快照
		if err := s.Delete(ctx, prefix+keyCollab); err != nil {
			return err
		}
	}
	// meta 最后写：meta 在即代表整套段齐全
	return s.Set(ctx, prefix+keyMeta, meta)
}

// Load 从 Store 还原最近一次持久化的快照。
// 缺段、解析失败、长度不一致都返回错误，由引擎归为"无历史状态"。
func Load(ctx context.Context, s core.Store, prefix string) (*Snapshot, error) {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}

	rawMeta, err := s.Get(ctx, prefix+keyMeta)
	if err != nil {
		return nil, err
	}
	var meta metaRecord
	if err := json.Unmarshal(rawMeta, &meta); err != nil {
		return nil, errCorrupted
	}

	rawModel, err := s.Get(ctx, prefix+keyVectorizer)
	if err != nil {
		return nil, err
	}
	var model vectorize.Model
	if err := json.Unmarshal(rawModel, &model); err != nil {
		return nil, errCorrupted
	}

	rawContent, err := s.Get(ctx, prefix+keyContent)
	if err != nil {
		return nil, err
	}
	var content index.VectorIndex
	if err := json.Unmarshal(rawContent, &content); err != nil {
		return nil, errCorrupted
	}
	if len(content.IDs) != len(content.Vectors) {
		return nil, errCorrupted
	}

	snap := &Snapshot{
		BuiltAt: meta.BuiltAt,
		Model:   &model,
		Content: &content,
	}

	if meta.HasCollab {
		rawCollab, err := s.Get(ctx, prefix+keyCollab)
		if err != nil {
			return nil, err
		}
		var collab collabRecord
		if err := json.Unmarshal(rawCollab, &collab); err != nil {
			return nil, errCorrupted
		}
		if collab.Users == nil || collab.Items == nil ||
			len(collab.Users.IDs) != len(collab.Users.Vectors) ||
			len(collab.Items.IDs) != len(collab.Items.Vectors) {
			return nil, errCorrupted
		}
		snap.Users = collab.Users
		snap.Items = collab.Items
	}
	return snap, nil
}
