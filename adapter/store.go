package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/flowforge/flowforge/model"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const INTEGRATION_STORE = "store"

// RecordPo is the persisted shape of one row in the generic relational
// store. The document itself is kept as a JSON blob so workflows can
// write arbitrary field sets without migrations.
type RecordPo struct {
	ID         string `gorm:"column:id;primaryKey"`
	AccountID  string `gorm:"column:account_id;index"`
	Collection string `gorm:"column:collection;index"`
	Data       []byte `gorm:"column:data"`
	CreatedAt  int64  `gorm:"column:created_at"`
	UpdatedAt  int64  `gorm:"column:updated_at"`
}

func (RecordPo) TableName() string {
	return "records"
}

// storeAdapter reads and writes rows scoped to the acting account.
type storeAdapter struct {
	db *gorm.DB
}

func NewStoreAdapter(db *gorm.DB) (Adapter, error) {
	if err := db.AutoMigrate(&RecordPo{}); err != nil {
		return nil, errors.WithMessage(err, "store adapter: migration failed")
	}
	return &storeAdapter{db: db}, nil
}

func (s *storeAdapter) Name() string {
	return INTEGRATION_STORE
}

func (s *storeAdapter) Validate(action string, config map[string]any) error {
	switch action {
	case "insert_row":
		if _, err := requireString(config, "table"); err != nil {
			return err
		}
		if _, ok := config["data"].(map[string]any); !ok {
			return fmt.Errorf("config field %q must be an object", "data")
		}
		return nil
	case "update_row":
		if _, err := requireString(config, "table"); err != nil {
			return err
		}
		if _, err := requireString(config, "row_id"); err != nil {
			return err
		}
		if _, ok := config["data"].(map[string]any); !ok {
			return fmt.Errorf("config field %q must be an object", "data")
		}
		return nil
	case "get_rows":
		_, err := requireString(config, "table")
		return err
	}
	return fmt.Errorf("unknown action %q for integration %s", action, INTEGRATION_STORE)
}

func (s *storeAdapter) Execute(ctx context.Context, action string, config map[string]any, ec *model.ExecutionContext) (map[string]any, error) {
	switch action {
	case "insert_row":
		return s.insertRow(ctx, config, ec.AccountId)
	case "update_row":
		return s.updateRow(ctx, config, ec.AccountId)
	case "get_rows":
		return s.getRows(ctx, config, ec.AccountId)
	}
	return nil, fmt.Errorf("unknown action %q for integration %s", action, INTEGRATION_STORE)
}

func (s *storeAdapter) insertRow(ctx context.Context, config map[string]any, accountId string) (map[string]any, error) {
	data, _ := config["data"].(map[string]any)
	blob, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	now := time.Now().Unix()
	record := RecordPo{
		ID:         uuid.New().String(),
		AccountID:  accountId,
		Collection: optionalString(config, "table"),
		Data:       blob,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, errors.WithMessage(err, "error inserting row")
	}
	return map[string]any{"id": record.ID, "row": data}, nil
}

func (s *storeAdapter) updateRow(ctx context.Context, config map[string]any, accountId string) (map[string]any, error) {
	rowId := optionalString(config, "row_id")
	var record RecordPo
	err := s.db.WithContext(ctx).
		Where("id = ? AND account_id = ?", rowId, accountId).
		First(&record).Error
	if err != nil {
		return nil, errors.WithMessagef(err, "row %s not found", rowId)
	}
	existing := make(map[string]any)
	if len(record.Data) > 0 {
		if err := json.Unmarshal(record.Data, &existing); err != nil {
			return nil, err
		}
	}
	updates, _ := config["data"].(map[string]any)
	for k, v := range updates {
		existing[k] = v
	}
	blob, err := json.Marshal(existing)
	if err != nil {
		return nil, err
	}
	record.Data = blob
	record.UpdatedAt = time.Now().Unix()
	if err := s.db.WithContext(ctx).Save(&record).Error; err != nil {
		return nil, errors.WithMessage(err, "error updating row")
	}
	return map[string]any{"id": record.ID, "row": existing}, nil
}

func (s *storeAdapter) getRows(ctx context.Context, config map[string]any, accountId string) (map[string]any, error) {
	var records []RecordPo
	err := s.db.WithContext(ctx).
		Where("account_id = ? AND collection = ?", accountId, optionalString(config, "table")).
		Find(&records).Error
	if err != nil {
		return nil, errors.WithMessage(err, "error querying rows")
	}
	rows := make([]map[string]any, 0, len(records))
	for _, record := range records {
		row := make(map[string]any)
		if len(record.Data) > 0 {
			if err := json.Unmarshal(record.Data, &row); err != nil {
				return nil, err
			}
		}
		row["_id"] = record.ID
		rows = append(rows, row)
	}
	rows = filterRows(rows, config["filter"])
	if orderBy := optionalString(config, "order_by"); orderBy != "" {
		sort.SliceStable(rows, func(i, j int) bool {
			return fmt.Sprintf("%v", rows[i][orderBy]) < fmt.Sprintf("%v", rows[j][orderBy])
		})
	}
	if limit, ok := toInt(config["limit"]); ok && limit >= 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	out := make([]any, len(rows))
	for i, row := range rows {
		out[i] = row
	}
	return map[string]any{"rows": out, "count": len(out)}, nil
}

// filterRows keeps rows whose fields equal every filter entry. Values
// are compared by their string form since row documents round-trip
// through JSON.
func filterRows(rows []map[string]any, filter any) []map[string]any {
	conditions, ok := filter.(map[string]any)
	if !ok || len(conditions) == 0 {
		return rows
	}
	kept := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		matches := true
		for field, want := range conditions {
			if fmt.Sprintf("%v", row[field]) != fmt.Sprintf("%v", want) {
				matches = false
				break
			}
		}
		if matches {
			kept = append(kept, row)
		}
	}
	return kept
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}
