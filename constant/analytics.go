package constant

type EventType string

const (
	EventPageView    EventType = "page_view"
	EventListingView EventType = "listing_view"
	EventSearch      EventType = "search"
	EventFavorite    EventType = "favorite"
	EventMessage     EventType = "message"
	EventOrder       EventType = "order"
)

type NotificationKind string

const (
	NotificationOrderCreated   NotificationKind = "order_created"
	NotificationOrderStatus    NotificationKind = "order_status"
	NotificationNewMessage     NotificationKind = "new_message"
	NotificationAdminBroadcast NotificationKind = "admin_broadcast"
)
