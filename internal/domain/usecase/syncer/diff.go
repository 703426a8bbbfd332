package syncer

import (
	"go-ingest/internal/domain/record"
)

type collision struct {
	key      string
	existing string
	incoming string
}

type diffResult struct {
	selected   []record.Record
	present    int
	duplicates int
	collisions []collision
}

// diff selects the incoming rows whose key is absent from existing, in
// incoming order. A key seen twice in incoming keeps its first row.
func diff(existing, incoming record.Set, keyColumns []string) (diffResult, error) {
	if incoming.Len() == 0 {
		return diffResult{}, nil
	}

	persisted := make(map[string]string, existing.Len())
	for _, row := range existing.Rows {
		key, err := record.Key(row, keyColumns)
		if err != nil {
			return diffResult{}, err
		}
		if _, ok := persisted[key]; !ok {
			persisted[key] = record.Tuple(row, keyColumns)
		}
	}

	var result diffResult
	selected := make(map[string]string, incoming.Len())
	for _, row := range incoming.Rows {
		key, err := record.Key(row, keyColumns)
		if err != nil {
			return diffResult{}, err
		}
		tuple := record.Tuple(row, keyColumns)

		if seen, ok := persisted[key]; ok {
			result.present++
			if seen != tuple {
				result.collisions = append(result.collisions, collision{key: key, existing: seen, incoming: tuple})
			}
			continue
		}
		if seen, ok := selected[key]; ok {
			result.duplicates++
			if seen != tuple {
				result.collisions = append(result.collisions, collision{key: key, existing: seen, incoming: tuple})
			}
			continue
		}

		selected[key] = tuple
		result.selected = append(result.selected, row)
	}
	return result, nil
}
