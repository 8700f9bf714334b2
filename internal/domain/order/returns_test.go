// internal/domain/order/returns_test.go
package order

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/varahajewels/ecommerce-backend/internal/domain/shipping"
)

func deliveredOrder(t *testing.T, svc *Service, customerID uint) *Order {
	t.Helper()
	req := createRequest()
	req.CustomerID = &customerID
	o, err := svc.Create(req)
	require.NoError(t, err)
	_, err = svc.Ship(context.Background(), o.OrderID, &ShipRequest{})
	require.NoError(t, err)
	_, err = svc.ApplyTrackingUpdate(&TrackingUpdate{
		AWB: mustGet(t, svc, o.OrderID).AWBNumber, CarrierStatus: "DEL", MappedStatus: StatusDelivered,
	})
	require.NoError(t, err)
	return mustGet(t, svc, o.OrderID)
}

func mustGet(t *testing.T, svc *Service, orderID string) *Order {
	t.Helper()
	o, err := svc.GetByOrderID(orderID)
	require.NoError(t, err)
	return o
}

func TestCreateReturn_FullRefund(t *testing.T) {
	svc, notifier := setupService(t, testConfig(false), &fakeShippingClient{})
	o := deliveredOrder(t, svc, 7)

	ret, err := svc.CreateReturn(7, &CreateReturnRequest{
		OrderID: o.OrderID,
		Reason:  "defective",
	})
	require.NoError(t, err)

	assert.Equal(t, ReturnStatusPending, ret.Status)
	assert.Equal(t, o.TotalAmount, ret.RefundAmount)
	assert.Empty(t, ret.ReturnItems)
	assert.Len(t, notifier.returns, 1)
}

func TestCreateReturn_PartialRefundByItemIndex(t *testing.T) {
	svc, _ := setupService(t, testConfig(false), &fakeShippingClient{})

	req := createRequest()
	customerID := uint(7)
	req.CustomerID = &customerID
	req.Items = []Item{
		{ProductID: "ring-01", Name: "Kundan Ring", Price: 515, Quantity: 1},
		{ProductID: "earring-02", Name: "Jhumka", Price: 515, Quantity: 1},
	}
	o, err := svc.Create(req)
	require.NoError(t, err)
	_, err = svc.Ship(context.Background(), o.OrderID, &ShipRequest{})
	require.NoError(t, err)
	_, err = svc.ApplyTrackingUpdate(&TrackingUpdate{
		AWB: mustGet(t, svc, o.OrderID).AWBNumber, CarrierStatus: "DEL", MappedStatus: StatusDelivered,
	})
	require.NoError(t, err)

	ret, err := svc.CreateReturn(7, &CreateReturnRequest{
		OrderID:     o.OrderID,
		Reason:      "wrong_item",
		ItemIndexes: []int{1, 99}, // out-of-range index is skipped
	})
	require.NoError(t, err)

	assert.Equal(t, 515.0, ret.RefundAmount)
	require.Len(t, ret.ReturnItems, 1)
	assert.Equal(t, "Jhumka", ret.ReturnItems[0].Name)
}

func TestCreateReturn_Eligibility(t *testing.T) {
	svc, _ := setupService(t, testConfig(false), &fakeShippingClient{})

	// Not delivered yet
	req := createRequest()
	customerID := uint(7)
	req.CustomerID = &customerID
	o, err := svc.Create(req)
	require.NoError(t, err)
	_, err = svc.CreateReturn(7, &CreateReturnRequest{OrderID: o.OrderID, Reason: "defective"})
	assert.ErrorIs(t, err, ErrReturnNotEligible)

	// Wrong customer
	delivered := deliveredOrder(t, svc, 7)
	_, err = svc.CreateReturn(99, &CreateReturnRequest{OrderID: delivered.OrderID, Reason: "defective"})
	assert.ErrorIs(t, err, ErrOrderNotFound)

	// Duplicate
	_, err = svc.CreateReturn(7, &CreateReturnRequest{OrderID: delivered.OrderID, Reason: "defective"})
	require.NoError(t, err)
	_, err = svc.CreateReturn(7, &CreateReturnRequest{OrderID: delivered.OrderID, Reason: "defective"})
	assert.ErrorIs(t, err, ErrReturnExists)
}

func TestReturnLifecycle(t *testing.T) {
	svc, _ := setupService(t, testConfig(false), &fakeShippingClient{})
	o := deliveredOrder(t, svc, 7)

	ret, err := svc.CreateReturn(7, &CreateReturnRequest{OrderID: o.OrderID, Reason: "quality"})
	require.NoError(t, err)

	// Refund before approval is rejected
	_, err = svc.ProcessRefund(ret.ID)
	assert.ErrorIs(t, err, ErrReturnNotApproved)

	approved, err := svc.UpdateReturn(ret.ID, &UpdateReturnRequest{
		Status:     ReturnStatusApproved,
		AdminNotes: "verified photos",
	})
	require.NoError(t, err)
	assert.Equal(t, ReturnStatusApproved, approved.Status)
	require.NotNil(t, approved.ProcessedAt)
	assert.WithinDuration(t, time.Now(), *approved.ProcessedAt, time.Minute)

	refunded, err := svc.ProcessRefund(ret.ID)
	require.NoError(t, err)
	assert.Equal(t, ReturnStatusRefunded, refunded.Status)

	mine, err := svc.ListCustomerReturns(7)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	pending, err := svc.ListReturns(ReturnStatusPending)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestCreateReturnShipment(t *testing.T) {
	client := &fakeShippingClient{
		returnResponse: &shipping.WrapperResponse{
			Status: "SUCCESS",
			Shipment: []shipping.ShipmentDetails{{
				ShipmentID: "RET-SHIP-1",
				AWB:        "RET-AWB-1",
				LabelURL:   "https://labels.example/ret1.pdf",
			}},
		},
	}
	svc, _ := setupService(t, testConfig(false), client)
	o := deliveredOrder(t, svc, 7)

	ret, err := svc.CreateReturn(7, &CreateReturnRequest{OrderID: o.OrderID, Reason: "defective"})
	require.NoError(t, err)

	// Reverse pickup only for approved returns
	_, err = svc.CreateReturnShipment(context.Background(), ret.ID)
	assert.ErrorIs(t, err, ErrReturnNotApproved)

	_, err = svc.UpdateReturn(ret.ID, &UpdateReturnRequest{Status: ReturnStatusApproved})
	require.NoError(t, err)

	booked, err := svc.CreateReturnShipment(context.Background(), ret.ID)
	require.NoError(t, err)
	assert.Equal(t, "RET-SHIP-1", booked.ShipmentID)
	assert.Equal(t, "RET-AWB-1", booked.TrackingNumber)
	assert.Equal(t, "https://labels.example/ret1.pdf", booked.LabelURL)
}
