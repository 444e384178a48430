package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/enishi-chat/enishi/pkg/domain/model"
	"github.com/enishi-chat/enishi/pkg/domain/types"
)

type roomRepository struct {
	mu       sync.RWMutex
	rooms    map[types.RoomID]*model.Room
	byMember map[types.IdentityID]types.RoomID
}

func newRoomRepository() *roomRepository {
	return &roomRepository{
		rooms:    make(map[types.RoomID]*model.Room),
		byMember: make(map[types.IdentityID]types.RoomID),
	}
}

func (r *roomRepository) Create(ctx context.Context, room *model.Room) (*model.Room, error) {
	if room == nil {
		return nil, goerr.New("room is required")
	}
	if room.ParticipantA == room.ParticipantB {
		return nil, goerr.New("room participants must be distinct", goerr.V("identity", room.ParticipantA))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	created := room.Clone()
	if created.ID == "" {
		created.ID = types.NewRoomID()
	}

	r.rooms[created.ID] = created
	r.byMember[created.ParticipantA] = created.ID
	r.byMember[created.ParticipantB] = created.ID

	return created.Clone(), nil
}

func (r *roomRepository) Get(ctx context.Context, id types.RoomID) (*model.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, exists := r.rooms[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "room not found", goerr.V("id", id))
	}

	return room.Clone(), nil
}

func (r *roomRepository) FindByParticipant(ctx context.Context, id types.IdentityID) (*model.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roomID, exists := r.byMember[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "identity not in a room", goerr.V("identity", id))
	}

	return r.rooms[roomID].Clone(), nil
}

func (r *roomRepository) Delete(ctx context.Context, id types.RoomID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, exists := r.rooms[id]
	if !exists {
		return goerr.Wrap(ErrNotFound, "room not found", goerr.V("id", id))
	}

	delete(r.rooms, id)
	if r.byMember[room.ParticipantA] == id {
		delete(r.byMember, room.ParticipantA)
	}
	if r.byMember[room.ParticipantB] == id {
		delete(r.byMember, room.ParticipantB)
	}

	return nil
}

func (r *roomRepository) Size(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.rooms), nil
}
