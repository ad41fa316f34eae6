package adherence

import (
	"encoding/json"
	"fmt"

	"gymtrack/internal/api"
	"gymtrack/internal/models"
)

// The month read comes back in one of two layouts:
//
//	{"trained": {"2025-08-03": 1, ...}, "supp": [{"day": ..., "supplement_name": ..., "took": 0}]}
//	[{"date": "2025-08-03", "did_train": 1}, ...]
//
// The first bundles supplement rows with the training map; the second carries
// training rows only and supplements live behind a separate operation.

type suppRow struct {
	Day  string      `json:"day"`
	Date string      `json:"date"`
	Name string      `json:"supplement_name"`
	Alt  string      `json:"name"`
	ID   json.Number `json:"supplement_id"`
	Took int         `json:"took"`
}

func (r suppRow) day() string {
	if r.Day != "" {
		return r.Day
	}
	return r.Date
}

func (r suppRow) habitID() string {
	if id := r.ID.String(); id != "" {
		return id
	}
	if r.Name != "" {
		return r.Name
	}
	return r.Alt
}

func decodeCheckins(payload json.RawMessage) (map[Key]models.TriState, bool, error) {
	facts := make(map[Key]models.TriState)

	var combined struct {
		Trained map[string]int `json:"trained"`
		Supp    []suppRow      `json:"supp"`
	}
	if err := json.Unmarshal(payload, &combined); err == nil && combined.Trained != nil {
		for day, v := range combined.Trained {
			facts[Key{Day: day, HabitID: models.TrainingHabitID}] = triFromFlag(v)
		}
		for _, row := range combined.Supp {
			addSuppRow(facts, row)
		}
		return facts, combined.Supp != nil, nil
	}

	var rows []struct {
		Day      string `json:"day"`
		Date     string `json:"date"`
		Trained  *int   `json:"trained"`
		DidTrain *int   `json:"did_train"`
	}
	if err := json.Unmarshal(payload, &rows); err != nil {
		return nil, false, &api.TransientError{Err: fmt.Errorf("malformed check-ins response: %w", err)}
	}
	for _, row := range rows {
		day := row.Day
		if day == "" {
			day = row.Date
		}
		if day == "" {
			continue
		}
		flag := 0
		switch {
		case row.Trained != nil:
			flag = *row.Trained
		case row.DidTrain != nil:
			flag = *row.DidTrain
		}
		facts[Key{Day: day, HabitID: models.TrainingHabitID}] = triFromFlag(flag)
	}
	return facts, false, nil
}

func decodeSuppRows(payload json.RawMessage, facts map[Key]models.TriState) error {
	var rows []suppRow
	if err := json.Unmarshal(payload, &rows); err != nil {
		// Some deployments wrap the list.
		var wrapped struct {
			Items []suppRow `json:"items"`
			Supp  []suppRow `json:"supp"`
		}
		if err2 := json.Unmarshal(payload, &wrapped); err2 != nil {
			return &api.TransientError{Err: fmt.Errorf("malformed supplement check-ins response: %w", err)}
		}
		rows = wrapped.Items
		if rows == nil {
			rows = wrapped.Supp
		}
	}
	for _, row := range rows {
		addSuppRow(facts, row)
	}
	return nil
}

func addSuppRow(facts map[Key]models.TriState, row suppRow) {
	day, id := row.day(), row.habitID()
	if day == "" || id == "" {
		return
	}
	facts[Key{Day: day, HabitID: id}] = triFromFlag(row.Took)
}

func triFromFlag(v int) models.TriState {
	if v != 0 {
		return models.TriYes
	}
	return models.TriNo
}
