package table

import (
	"context"
	"fmt"

	"go-ingest/internal/domain/entity"
	"go-ingest/internal/domain/errs"
	"go-ingest/internal/domain/gateway/db"
	"go-ingest/internal/domain/model"
)

type tableUseCase struct {
	store db.TableGateway
}

func NewTableUseCase(store db.TableGateway) UseCase {
	return &tableUseCase{store: store}
}

func (uc *tableUseCase) ReadPage(ctx context.Context, name string, page, size int) (model.TablePageDTO, error) {
	if _, ok := entity.LookupTable(name); !ok {
		return model.TablePageDTO{}, fmt.Errorf("%w: %s", errs.ErrTableNotFound, name)
	}
	if page < 0 {
		page = 0
	}
	if size < 1 {
		size = 1
	}

	set, err := uc.store.ReadTable(ctx, name)
	if err != nil {
		return model.TablePageDTO{}, err
	}

	start := min(page*size, set.Len())
	end := min(start+size, set.Len())
	content := make([]map[string]any, 0, end-start)
	for _, row := range set.Rows[start:end] {
		content = append(content, row)
	}

	columns := set.Columns
	if columns == nil {
		columns = []string{}
	}
	return model.TablePageDTO{
		Table:   name,
		Columns: columns,
		Page:    model.NewPage(content, page, size, int64(set.Len())),
	}, nil
}
