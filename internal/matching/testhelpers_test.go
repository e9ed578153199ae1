package matching

import "github.com/Active-Apparel-Group/data-orchestration/internal/model"

func rec(customer, po, style, color, size string, qty float64) model.Record {
	return model.Record{
		CanonicalCustomer: customer,
		Customer:          customer,
		CustomerPO:        po,
		Style:             style,
		Color:             color,
		Size:              size,
		Qty:               qty,
	}
}

func order(customer, po, style, color, size string, qty float64) model.OrderRecord {
	return model.OrderRecord{
		CanonicalCustomer: customer,
		Customer:          customer,
		CustomerPO:        po,
		Style:             style,
		Color:             color,
		Size:              size,
		OrderedQty:        qty,
	}
}
