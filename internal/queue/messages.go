package queue

const (
	// BookingEventsQueue worker 消费的持久队列
	BookingEventsQueue = "tourcore.booking.events"
	// bookingBindingKey 订阅全部预订事件
	bookingBindingKey = "booking.#"

	consumerTag   = "tourcore-worker"
	prefetchCount = 16
)
