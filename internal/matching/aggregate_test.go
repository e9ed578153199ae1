package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Active-Apparel-Group/data-orchestration/internal/model"
)

func TestAggregate_Empty(t *testing.T) {
	out := Aggregate(nil, nil)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestAggregate_SumsAndLabels(t *testing.T) {
	packed := []model.Record{
		rec("ACME", "PO-1", "A", "RED", "M", 3),
		rec("ACME", "PO-1", "A", "RED", "M", 7),
		rec("ACME", "PO-2", "B", "BLUE", "S", 5),
	}
	shipped := []model.Record{
		rec("ACME", "PO-1", "A", "RED", "M", 4),
		rec("ACME", "PO-3", "C", "GREEN", "L", 2),
	}

	out := Aggregate(packed, shipped)
	require.Len(t, out, 3)

	assert.Equal(t, "PO-1", out[0].CustomerPO)
	assert.Equal(t, 10.0, out[0].PackedQty)
	assert.Equal(t, 4.0, out[0].ShippedQty)
	assert.Equal(t, model.SourceTypeBoth, out[0].SourceType)

	assert.Equal(t, "PO-2", out[1].CustomerPO)
	assert.Equal(t, 5.0, out[1].PackedQty)
	assert.Equal(t, 0.0, out[1].ShippedQty)
	assert.Equal(t, model.SourceTypePacked, out[1].SourceType)

	assert.Equal(t, "PO-3", out[2].CustomerPO)
	assert.Equal(t, 0.0, out[2].PackedQty)
	assert.Equal(t, 2.0, out[2].ShippedQty)
	assert.Equal(t, model.SourceTypeShipped, out[2].SourceType)
}

func TestAggregate_KeyIncludesAltPOAndPattern(t *testing.T) {
	a := rec("ACME", "PO-1", "A", "RED", "M", 1)
	b := a
	b.CustomerAltPO = "ALT-1"
	c := a
	c.PatternID = "P9"

	out := Aggregate([]model.Record{a, b, c}, nil)
	assert.Len(t, out, 3)
}

func TestAggregate_TrimsKeyParts(t *testing.T) {
	out := Aggregate([]model.Record{
		rec("ACME", "PO-1", "A", "RED", "M", 1),
		rec(" ACME", "PO-1 ", "A", " RED", "M", 2),
	}, nil)
	require.Len(t, out, 1)
	assert.Equal(t, 3.0, out[0].PackedQty)
}

func TestAggregate_CanonicalFallsBackToCustomer(t *testing.T) {
	r := model.Record{Customer: "Rhone", CustomerPO: "PO-1", Qty: 2}
	out := Aggregate([]model.Record{r}, nil)
	require.Len(t, out, 1)
	assert.Equal(t, "Rhone", out[0].CanonicalCustomer)
	assert.Equal(t, "Rhone", out[0].Customer)
}

func TestAggregate_Idempotent(t *testing.T) {
	packed := []model.Record{
		rec("ACME", "PO-1", "A", "RED", "M", 3),
		rec("ACME", "PO-1", "A", "RED", "M", 7),
		rec("BETA", "PO-9", "Z", "BLACK", "XL", 1),
	}
	shipped := []model.Record{
		rec("ACME", "PO-1", "A", "RED", "M", 4),
		rec("ACME", "PO-3", "C", "GREEN", "L", 2),
	}
	first := Aggregate(packed, shipped)

	var rePacked, reShipped []model.Record
	for _, c := range first {
		base := model.Record{
			CanonicalCustomer: c.CanonicalCustomer,
			Customer:          c.Customer,
			CustomerPO:        c.CustomerPO,
			CustomerAltPO:     c.CustomerAltPO,
			Style:             c.Style,
			PatternID:         c.PatternID,
			Color:             c.Color,
			Size:              c.Size,
		}
		if c.SourceType != model.SourceTypeShipped {
			p := base
			p.Qty = c.PackedQty
			rePacked = append(rePacked, p)
		}
		if c.SourceType != model.SourceTypePacked {
			s := base
			s.Qty = c.ShippedQty
			reShipped = append(reShipped, s)
		}
	}

	second := Aggregate(rePacked, reShipped)
	assert.Equal(t, first, second)
}
