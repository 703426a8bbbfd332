package table

import (
	"context"

	"go-ingest/internal/domain/model"
)

type UseCase interface {
	// ReadPage returns rows [page*size, (page+1)*size) of a known table in store order
	ReadPage(ctx context.Context, name string, page, size int) (model.TablePageDTO, error)
}
