package service

import "neighborly-backend/internal/models"

// Actor is the authenticated identity passed into every core operation.
type Actor struct {
	ID   uint
	Role string
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.UserTypeAdmin
}

func (a Actor) IsShopkeeper() bool {
	return a.Role == models.UserTypeShopkeeper
}

// CanManageOrder reports whether the actor may change the order's status:
// the owning shop's keeper or an admin.
func CanManageOrder(actor Actor, order *models.Order) bool {
	if actor.IsAdmin() {
		return true
	}
	return actor.IsShopkeeper() && order.Shop.OwnerID == actor.ID
}

// CanViewOrder reports whether the actor may read the order and its
// tracking history: the owning customer, the owning shop's keeper, or an
// admin.
func CanViewOrder(actor Actor, order *models.Order) bool {
	if actor.ID == order.CustomerID {
		return true
	}
	return CanManageOrder(actor, order)
}
