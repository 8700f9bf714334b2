// internal/domain/order/service_test.go
package order

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/varahajewels/ecommerce-backend/internal/config"
	"github.com/varahajewels/ecommerce-backend/internal/domain/shipping"
	"github.com/varahajewels/ecommerce-backend/internal/domain/tax"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// fakeShippingClient is a programmable shipping.Client for tests
type fakeShippingClient struct {
	mu sync.Mutex

	forwardResponses []*shipping.WrapperResponse
	forwardCalls     []*shipping.ForwardOrderRequest
	returnResponse   *shipping.WrapperResponse
	trackResponse    *shipping.TrackOrderResponse
	locations        *shipping.PickupLocationsResponse
}

func (f *fakeShippingClient) CheckServiceability(ctx context.Context, req *shipping.ServiceabilityRequest) (*shipping.ServiceabilityResponse, error) {
	return &shipping.ServiceabilityResponse{Status: "success"}, nil
}

func (f *fakeShippingClient) CreateForwardOrder(ctx context.Context, req *shipping.ForwardOrderRequest) (*shipping.WrapperResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forwardCalls = append(f.forwardCalls, req)
	resp := f.forwardResponses[0]
	if len(f.forwardResponses) > 1 {
		f.forwardResponses = f.forwardResponses[1:]
	}
	return resp, nil
}

func (f *fakeShippingClient) CreateReturnOrder(ctx context.Context, req *shipping.ReturnOrderRequest) (*shipping.WrapperResponse, error) {
	return f.returnResponse, nil
}

func (f *fakeShippingClient) TrackOrder(ctx context.Context, req *shipping.TrackOrderRequest) (*shipping.TrackOrderResponse, error) {
	return f.trackResponse, nil
}

func (f *fakeShippingClient) GetPickupLocations(ctx context.Context) (*shipping.PickupLocationsResponse, error) {
	if f.locations == nil {
		return &shipping.PickupLocationsResponse{}, nil
	}
	return f.locations, nil
}

func (f *fakeShippingClient) CreatePickupLocation(ctx context.Context, req *shipping.CreatePickupLocationRequest) (*shipping.PickupLocationsResponse, error) {
	return f.locations, nil
}

// fakeNotifier records lifecycle events
type fakeNotifier struct {
	mu      sync.Mutex
	created []string
	changes []Status
	returns []uint
}

func (f *fakeNotifier) OrderCreated(o *Order) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, o.OrderID)
}

func (f *fakeNotifier) OrderStatusChanged(o *Order, status Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.changes = append(f.changes, status)
}

func (f *fakeNotifier) ReturnRequested(o *Order, r *Return, images []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.returns = append(f.returns, r.ID)
}

func testConfig(rapidShypEnabled bool) *config.Config {
	return &config.Config{
		Tax: config.TaxConfig{
			HomeState:      "Rajasthan",
			GSTRate:        0.03,
			DefaultHSNCode: "7117",
		},
		Shipping: config.ShippingConfig{
			RapidShypEnabled: rapidShypEnabled,
			PickupPincode:    "302031",
			PickupLocation:   "Jaipur",
		},
		Tracking: config.TrackingConfig{
			TokenSecret: "test_secret",
		},
	}
}

func setupService(t *testing.T, cfg *config.Config, client *fakeShippingClient) (*Service, *fakeNotifier) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Order{}, &Return{}))

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	notifier := &fakeNotifier{}
	svc := NewService(db, cfg, tax.NewCalculator(cfg), client, notifier, logger)
	return svc, notifier
}

func createRequest() *CreateOrderRequest {
	return &CreateOrderRequest{
		CustomerName: "Priya Sharma",
		Email:        "priya@example.com",
		Phone:        "9876543210",
		Address:      "14 Johari Bazaar, Pink City",
		City:         "Jaipur",
		State:        "Rajasthan",
		Pincode:      "302003",
		Items: []Item{
			{ProductID: "ring-01", Name: "Kundan Ring", Price: 515, Quantity: 2},
		},
		TotalAmount: 1030,
	}
}

func TestCreate_IntraStateTaxBreakdown(t *testing.T) {
	svc, notifier := setupService(t, testConfig(false), &fakeShippingClient{})

	o, err := svc.Create(createRequest())
	require.NoError(t, err)

	assert.Equal(t, 1000.00, o.TaxableValue)
	assert.Equal(t, 15.00, o.CGSTAmount)
	assert.Equal(t, 15.00, o.SGSTAmount)
	assert.Equal(t, 0.00, o.IGSTAmount)
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, EmailStatusPending, o.EmailStatus)
	assert.Equal(t, "7117", o.HSNCode)
	require.Len(t, o.StatusHistory, 1)
	assert.Equal(t, StatusPending, o.StatusHistory[0].Status)
	assert.Equal(t, []string{o.OrderID}, notifier.created)
}

func TestCreate_InterStateUsesIGST(t *testing.T) {
	svc, _ := setupService(t, testConfig(false), &fakeShippingClient{})

	req := createRequest()
	req.State = "Maharashtra"
	o, err := svc.Create(req)
	require.NoError(t, err)

	assert.Equal(t, 0.00, o.CGSTAmount)
	assert.Equal(t, 0.00, o.SGSTAmount)
	assert.Equal(t, 30.00, o.IGSTAmount)
}

func TestCreate_OnlinePaymentStartsPaid(t *testing.T) {
	svc, _ := setupService(t, testConfig(false), &fakeShippingClient{})

	req := createRequest()
	req.PaymentMethod = "online"
	req.PaymentRef = "pay_ABC123"
	o, err := svc.Create(req)
	require.NoError(t, err)

	assert.Equal(t, StatusPaid, o.Status)
	require.Len(t, o.StatusHistory, 2)
	assert.Contains(t, o.StatusHistory[1].Comment, "pay_ABC123")
}

func TestCreate_RejectsUnknownPaymentMethod(t *testing.T) {
	svc, _ := setupService(t, testConfig(false), &fakeShippingClient{})

	req := createRequest()
	req.PaymentMethod = "barter"
	_, err := svc.Create(req)
	assert.Error(t, err)
}

func TestGetByOrderID_RoundTripsSerializedColumns(t *testing.T) {
	svc, _ := setupService(t, testConfig(false), &fakeShippingClient{})

	created, err := svc.Create(createRequest())
	require.NoError(t, err)

	loaded, err := svc.GetByOrderID(created.OrderID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, "Kundan Ring", loaded.Items[0].Name)
	require.Len(t, loaded.StatusHistory, 1)
}

func TestGetByOrderID_NotFound(t *testing.T) {
	svc, _ := setupService(t, testConfig(false), &fakeShippingClient{})

	_, err := svc.GetByOrderID("VJ-MISSING")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestCancel(t *testing.T) {
	svc, _ := setupService(t, testConfig(false), &fakeShippingClient{})

	o, err := svc.Create(createRequest())
	require.NoError(t, err)

	cancelled, err := svc.Cancel(o.OrderID, "changed my mind")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)
	assert.Contains(t, cancelled.StatusHistory[len(cancelled.StatusHistory)-1].Comment, "changed my mind")

	// Terminal: a second cancel is rejected
	_, err = svc.Cancel(o.OrderID, "")
	assert.ErrorIs(t, err, ErrNotCancellable)
}

func TestCancel_RejectedAfterShipment(t *testing.T) {
	svc, _ := setupService(t, testConfig(false), &fakeShippingClient{})

	o, err := svc.Create(createRequest())
	require.NoError(t, err)
	_, err = svc.Ship(context.Background(), o.OrderID, &ShipRequest{})
	require.NoError(t, err)

	_, err = svc.Cancel(o.OrderID, "")
	assert.ErrorIs(t, err, ErrNotCancellable)
}

func TestShip_MockWhenAggregatorDisabled(t *testing.T) {
	svc, notifier := setupService(t, testConfig(false), &fakeShippingClient{})

	o, err := svc.Create(createRequest())
	require.NoError(t, err)

	result, err := svc.Ship(context.Background(), o.OrderID, &ShipRequest{})
	require.NoError(t, err)

	assert.Contains(t, result.Order.ShippingID, "MOCK-SHIP-")
	assert.Contains(t, result.Order.AWBNumber, "MOCK-AWB-")
	assert.Equal(t, "Mock Courier", result.Order.CourierName)
	assert.Equal(t, StatusShipped, result.Order.Status)
	assert.Contains(t, notifier.changes, StatusShipped)
}

func TestShip_IsIdempotent(t *testing.T) {
	svc, _ := setupService(t, testConfig(false), &fakeShippingClient{})

	o, err := svc.Create(createRequest())
	require.NoError(t, err)

	_, err = svc.Ship(context.Background(), o.OrderID, &ShipRequest{})
	require.NoError(t, err)

	_, err = svc.Ship(context.Background(), o.OrderID, &ShipRequest{})
	assert.ErrorIs(t, err, ErrAlreadyShipped)
}

func TestShip_ForwardOrderViaAggregator(t *testing.T) {
	client := &fakeShippingClient{
		forwardResponses: []*shipping.WrapperResponse{{
			Status: "SUCCESS",
			Shipment: []shipping.ShipmentDetails{{
				ShipmentID:  "SHIP-1",
				AWB:         "AWB-1",
				CourierName: "Delhivery",
				LabelURL:    "https://labels.example/1.pdf",
			}},
		}},
		locations: &shipping.PickupLocationsResponse{
			Data: []shipping.PickupLocation{{Nickname: "Jaipur Main", PinCode: "302031"}},
		},
	}
	svc, _ := setupService(t, testConfig(true), client)

	o, err := svc.Create(createRequest())
	require.NoError(t, err)

	result, err := svc.Ship(context.Background(), o.OrderID, &ShipRequest{Weight: 0.4})
	require.NoError(t, err)

	assert.Equal(t, "SHIP-1", result.Order.ShippingID)
	assert.Equal(t, "AWB-1", result.Order.AWBNumber)
	assert.Equal(t, "Delhivery", result.Order.CourierName)
	assert.Equal(t, "https://labels.example/1.pdf", result.Order.LabelURL)
	assert.Equal(t, StatusShipped, result.Order.Status)

	require.Len(t, client.forwardCalls, 1)
	call := client.forwardCalls[0]
	assert.Equal(t, o.OrderID, call.OrderID)
	assert.Equal(t, "COD", call.PaymentMethod)
	assert.Equal(t, "Jaipur Main", call.PickupAddressName) // resolved via warehouse pincode
	assert.Equal(t, 400.0, call.PackageDetails.PackageWeight)
	require.Len(t, call.OrderItems, 1)
	assert.Equal(t, 2, call.OrderItems[0].Units)
}

func TestShip_RetriesOnUnknownPickupAddress(t *testing.T) {
	client := &fakeShippingClient{
		forwardResponses: []*shipping.WrapperResponse{
			{Status: "FAILED", Remarks: "Pickup address not found"},
			{Status: "SUCCESS", Shipment: []shipping.ShipmentDetails{{ShipmentID: "SHIP-2", AWB: "AWB-2", CourierName: "Bluedart"}}},
		},
		locations: &shipping.PickupLocationsResponse{
			Data: []shipping.PickupLocation{{Nickname: "Warehouse A", PinCode: "110001"}},
		},
	}
	svc, _ := setupService(t, testConfig(true), client)

	o, err := svc.Create(createRequest())
	require.NoError(t, err)

	result, err := svc.Ship(context.Background(), o.OrderID, &ShipRequest{PickupLocation: "Ghost Warehouse"})
	require.NoError(t, err)

	assert.Equal(t, "AWB-2", result.Order.AWBNumber)
	require.Len(t, client.forwardCalls, 2)
	assert.Equal(t, "Warehouse A", client.forwardCalls[1].PickupAddressName)
}

func TestShip_FailsWhenAggregatorRejects(t *testing.T) {
	client := &fakeShippingClient{
		forwardResponses: []*shipping.WrapperResponse{{Status: "FAILED", Remarks: "COD not available"}},
	}
	svc, _ := setupService(t, testConfig(true), client)

	o, err := svc.Create(createRequest())
	require.NoError(t, err)

	_, err = svc.Ship(context.Background(), o.OrderID, &ShipRequest{PickupLocation: "Jaipur"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COD not available")

	// Failure must not leave a partial shipment behind
	reloaded, err := svc.GetByOrderID(o.OrderID)
	require.NoError(t, err)
	assert.False(t, reloaded.HasShipment())
}

func TestTransitionStatus(t *testing.T) {
	svc, notifier := setupService(t, testConfig(false), &fakeShippingClient{})

	o, err := svc.Create(createRequest())
	require.NoError(t, err)

	updated, err := svc.TransitionStatus(o.OrderID, StatusPacked, "packed by workshop")
	require.NoError(t, err)
	assert.Equal(t, StatusPacked, updated.Status)
	assert.Contains(t, notifier.changes, StatusPacked)

	// pending -> delivered is not a legal jump
	_, err = svc.TransitionStatus(o.OrderID, StatusDelivered, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.TransitionStatus(o.OrderID, "warehouse_magic", "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestList_FiltersAndPaginates(t *testing.T) {
	svc, _ := setupService(t, testConfig(false), &fakeShippingClient{})

	for i := 0; i < 3; i++ {
		_, err := svc.Create(createRequest())
		require.NoError(t, err)
	}
	o, err := svc.Create(createRequest())
	require.NoError(t, err)
	_, err = svc.Cancel(o.OrderID, "")
	require.NoError(t, err)

	page, err := svc.List(&ListRequest{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Orders, 2)
	assert.Equal(t, int64(4), page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.TotalPages)

	cancelled, err := svc.List(&ListRequest{Status: StatusCancelled})
	require.NoError(t, err)
	assert.Len(t, cancelled.Orders, 1)
}

func TestUpdateEmailStatus(t *testing.T) {
	svc, _ := setupService(t, testConfig(false), &fakeShippingClient{})

	o, err := svc.Create(createRequest())
	require.NoError(t, err)

	require.NoError(t, svc.UpdateEmailStatus(o.OrderID, EmailStatusSent))
	loaded, err := svc.GetByOrderID(o.OrderID)
	require.NoError(t, err)
	assert.Equal(t, EmailStatusSent, loaded.EmailStatus)

	assert.ErrorIs(t, svc.UpdateEmailStatus("VJ-MISSING", EmailStatusFailed), ErrOrderNotFound)
}
