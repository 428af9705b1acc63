package floorplan

import (
	"encoding/json"

	"github.com/AliAmzai/Tablr/models"
)

// NewTable is the payload for creating a table on a floor.
type NewTable struct {
	FloorID  uint    `json:"floorId"`
	Name     string  `json:"name"`
	Shape    string  `json:"shape"`
	Capacity int     `json:"capacity"`
	Status   string  `json:"status,omitempty"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	WorkerID *uint   `json:"workerId,omitempty"`
}

// TablePatch carries only the fields to overwrite. ClearWorker sends an explicit null workerId.
type TablePatch struct {
	Name        *string
	Shape       *string
	Capacity    *int
	Status      *string
	X           *float64
	Y           *float64
	Width       *float64
	Height      *float64
	WorkerID    *uint
	ClearWorker bool
	Version     *int
}

func (p TablePatch) MarshalJSON() ([]byte, error) {
	out := map[string]interface{}{}
	if p.Name != nil {
		out["name"] = *p.Name
	}
	if p.Shape != nil {
		out["shape"] = *p.Shape
	}
	if p.Capacity != nil {
		out["capacity"] = *p.Capacity
	}
	if p.Status != nil {
		out["status"] = *p.Status
	}
	if p.X != nil {
		out["x"] = *p.X
	}
	if p.Y != nil {
		out["y"] = *p.Y
	}
	if p.Width != nil {
		out["width"] = *p.Width
	}
	if p.Height != nil {
		out["height"] = *p.Height
	}
	switch {
	case p.ClearWorker:
		out["workerId"] = nil
	case p.WorkerID != nil:
		out["workerId"] = *p.WorkerID
	}
	if p.Version != nil {
		out["version"] = *p.Version
	}
	return json.Marshal(out)
}

// Empty reports whether the patch would change nothing.
func (p TablePatch) Empty() bool {
	return p.Name == nil && p.Shape == nil && p.Capacity == nil && p.Status == nil &&
		p.X == nil && p.Y == nil && p.Width == nil && p.Height == nil &&
		p.WorkerID == nil && !p.ClearWorker
}

// ApplyTo writes the patch onto t the way the server does.
func (p TablePatch) ApplyTo(t *models.Table) {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Shape != nil {
		t.Shape = *p.Shape
	}
	if p.Capacity != nil {
		t.Capacity = *p.Capacity
	}
	if p.Status != nil {
		SetStatus(t, *p.Status)
	}
	if p.X != nil {
		t.X = *p.X
	}
	if p.Y != nil {
		t.Y = *p.Y
	}
	if p.Width != nil {
		t.Width = *p.Width
	}
	if p.Height != nil {
		t.Height = *p.Height
	}
	switch {
	case p.ClearWorker:
		t.WorkerID = nil
		t.Worker = nil
	case p.WorkerID != nil:
		id := *p.WorkerID
		t.WorkerID = &id
	}
}
