package interfaces

// Repository defines the interface for orchestration state storage
type Repository interface {
	Pool() PoolRepository
	History() HistoryRepository
	Invitation() InvitationRepository
	Room() RoomRepository

	Close() error
}
