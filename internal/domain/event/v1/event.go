package eventv1

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/holiman/uint256"
	assetv1 "github.com/muhammadchandra19/token-exchange/internal/domain/asset/v1"
)

// Type names a record kind on the event stream.
type Type string

const (
	// TypeAssetIssued is emitted once per issued asset.
	TypeAssetIssued Type = "asset_issued"
	// TypeTransfer is emitted for every ledger movement, including mint and zero amounts.
	TypeTransfer Type = "transfer"
	// TypeApproval is emitted when an allowance is overwritten.
	TypeApproval Type = "approval"
	// TypeDeposit follows the Transfer that pulled funds into custody.
	TypeDeposit Type = "deposit"
	// TypeWithdraw follows the Transfer that paid custody out.
	TypeWithdraw Type = "withdraw"
	// TypeOrder is emitted when an order is created.
	TypeOrder Type = "order"
	// TypeCancel is emitted when an order is cancelled.
	TypeCancel Type = "cancel"
)

// Payload is the type specific body of an Event.
type Payload interface {
	EventType() Type
}

// Event is one immutable record. Seq is global and gap free.
type Event struct {
	Seq       uint64    `json:"seq"`
	Type      Type      `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Payload   Payload   `json:"payload"`
}

// New wraps a payload. Seq and Timestamp are assigned by the state transaction.
func New(p Payload) Event {
	return Event{Type: p.EventType(), Payload: p}
}

// AssetIssued records a new asset.
type AssetIssued struct {
	Asset       assetv1.ID      `json:"asset"`
	Name        string          `json:"name"`
	Symbol      string          `json:"symbol"`
	Decimals    uint8           `json:"decimals"`
	TotalSupply *uint256.Int    `json:"total_supply"`
	Issuer      assetv1.Address `json:"issuer"`
}

// Transfer records a ledger movement. Mints come from the zero address.
type Transfer struct {
	Asset  assetv1.ID      `json:"asset"`
	From   assetv1.Address `json:"from"`
	To     assetv1.Address `json:"to"`
	Amount *uint256.Int    `json:"amount"`
}

// Approval records the new allowance value.
type Approval struct {
	Asset   assetv1.ID      `json:"asset"`
	Owner   assetv1.Address `json:"owner"`
	Spender assetv1.Address `json:"spender"`
	Amount  *uint256.Int    `json:"amount"`
}

// Custody records a deposit or withdrawal with the resulting custody balance.
type Custody struct {
	Asset   assetv1.ID      `json:"asset"`
	Holder  assetv1.Address `json:"holder"`
	Amount  *uint256.Int    `json:"amount"`
	Balance *uint256.Int    `json:"balance"`
}

// Deposit is the Custody record emitted by deposit.
type Deposit Custody

// Withdraw is the Custody record emitted by withdraw.
type Withdraw Custody

// OrderRecord carries every field of an order. Order and Cancel share it.
type OrderRecord struct {
	ID         uint64          `json:"id"`
	Owner      assetv1.Address `json:"owner"`
	AssetGet   assetv1.ID      `json:"asset_get"`
	AmountGet  *uint256.Int    `json:"amount_get"`
	AssetGive  assetv1.ID      `json:"asset_give"`
	AmountGive *uint256.Int    `json:"amount_give"`
	Timestamp  time.Time       `json:"timestamp"`
}

// Order is emitted by create.
type Order OrderRecord

// Cancel is emitted by cancel.
type Cancel OrderRecord

func (AssetIssued) EventType() Type { return TypeAssetIssued }
func (Transfer) EventType() Type    { return TypeTransfer }
func (Approval) EventType() Type    { return TypeApproval }
func (Deposit) EventType() Type     { return TypeDeposit }
func (Withdraw) EventType() Type    { return TypeWithdraw }
func (Order) EventType() Type       { return TypeOrder }
func (Cancel) EventType() Type      { return TypeCancel }

// DecodePayload rebuilds a typed payload from its JSON body.
func DecodePayload(t Type, raw []byte) (Payload, error) {
	var p Payload
	switch t {
	case TypeAssetIssued:
		p = &AssetIssued{}
	case TypeTransfer:
		p = &Transfer{}
	case TypeApproval:
		p = &Approval{}
	case TypeDeposit:
		p = &Deposit{}
	case TypeWithdraw:
		p = &Withdraw{}
	case TypeOrder:
		p = &Order{}
	case TypeCancel:
		p = &Cancel{}
	default:
		return nil, fmt.Errorf("unknown event type %q", t)
	}

	if err := json.Unmarshal(raw, p); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", t, err)
	}
	return deref(p), nil
}

// deref stores payloads by value so equality checks work on decoded events.
func deref(p Payload) Payload {
	switch v := p.(type) {
	case *AssetIssued:
		return *v
	case *Transfer:
		return *v
	case *Approval:
		return *v
	case *Deposit:
		return *v
	case *Withdraw:
		return *v
	case *Order:
		return *v
	case *Cancel:
		return *v
	}
	return p
}

type eventJSON struct {
	Seq       uint64          `json:"seq"`
	Type      Type            `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// UnmarshalJSON decodes the payload according to the type field.
func (e *Event) UnmarshalJSON(data []byte) error {
	var raw eventJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	payload, err := DecodePayload(raw.Type, raw.Payload)
	if err != nil {
		return err
	}

	*e = Event{Seq: raw.Seq, Type: raw.Type, Timestamp: raw.Timestamp, Payload: payload}
	return nil
}

// Key is the partition key used on the stream: events for one asset stay ordered.
func (e Event) Key() string {
	switch p := e.Payload.(type) {
	case AssetIssued:
		return p.Asset.String()
	case Transfer:
		return p.Asset.String()
	case Approval:
		return p.Asset.String()
	case Deposit:
		return p.Asset.String()
	case Withdraw:
		return p.Asset.String()
	case Order:
		return p.AssetGive.String()
	case Cancel:
		return p.AssetGive.String()
	}
	return ""
}
