package handler_test

import (
	"context"

	"tutormatch/backend/internal/dto"
	"tutormatch/backend/internal/listing"
	"tutormatch/backend/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockUsers is a testify mock of user.Service.
type MockUsers struct{ mock.Mock }

func (m *MockUsers) RegisterParent(ctx context.Context, req *dto.RegisterParentRequest) (*models.User, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUsers) RegisterStudent(ctx context.Context, req *dto.RegisterStudentRequest) (*models.User, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUsers) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LoginResponse), args.Error(1)
}

func (m *MockUsers) Me(ctx context.Context, userID uint) (*models.User, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUsers) Verify(ctx context.Context, userID uint) error {
	return m.Called(userID).Error(0)
}

// MockMatches is a testify mock of match.Service.
type MockMatches struct{ mock.Mock }

func (m *MockMatches) result(args mock.Arguments) (*models.Match, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Match), args.Error(1)
}

func (m *MockMatches) Propose(ctx context.Context, initiatorID, targetID uint) (*models.Match, error) {
	return m.result(m.Called(initiatorID, targetID))
}

func (m *MockMatches) Accept(ctx context.Context, matchID, actorID uint) (*models.Match, error) {
	return m.result(m.Called(matchID, actorID))
}

func (m *MockMatches) Reject(ctx context.Context, matchID, actorID uint) (*models.Match, error) {
	return m.result(m.Called(matchID, actorID))
}

func (m *MockMatches) Close(ctx context.Context, matchID, actorID uint) (*models.Match, error) {
	return m.result(m.Called(matchID, actorID))
}

func (m *MockMatches) ForceEnd(ctx context.Context, matchID uint) (*models.Match, error) {
	return m.result(m.Called(matchID))
}

func (m *MockMatches) Check(ctx context.Context, userA, userB uint) (bool, error) {
	args := m.Called(userA, userB)
	return args.Bool(0), args.Error(1)
}

func (m *MockMatches) List(ctx context.Context, userID uint) ([]models.MatchView, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MatchView), args.Error(1)
}

// MockListings is a testify mock of listing.Service.
type MockListings struct{ mock.Mock }

func offerResult(args mock.Arguments) (*models.TutorListing, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TutorListing), args.Error(1)
}

func requestResult(args mock.Arguments) (*models.TutorRequest, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TutorRequest), args.Error(1)
}

func (m *MockListings) CreateOffer(ctx context.Context, actor listing.Actor, in *dto.OfferInput) (*models.TutorListing, error) {
	return offerResult(m.Called(actor, in))
}

func (m *MockListings) UpdateOffer(ctx context.Context, actor listing.Actor, id uint, in *dto.OfferInput) (*models.TutorListing, error) {
	return offerResult(m.Called(actor, id, in))
}

func (m *MockListings) DeleteOffer(ctx context.Context, actor listing.Actor, id uint) error {
	return m.Called(actor, id).Error(0)
}

func (m *MockListings) MyOffers(ctx context.Context, actor listing.Actor) ([]models.TutorListing, error) {
	args := m.Called(actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TutorListing), args.Error(1)
}

func (m *MockListings) PublicOffers(ctx context.Context) ([]models.TutorListing, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TutorListing), args.Error(1)
}

func (m *MockListings) CreateRequest(ctx context.Context, actor listing.Actor, in *dto.RequestInput) (*models.TutorRequest, error) {
	return requestResult(m.Called(actor, in))
}

func (m *MockListings) UpdateRequest(ctx context.Context, actor listing.Actor, id uint, in *dto.RequestInput) (*models.TutorRequest, error) {
	return requestResult(m.Called(actor, id, in))
}

func (m *MockListings) DeleteRequest(ctx context.Context, actor listing.Actor, id uint) error {
	return m.Called(actor, id).Error(0)
}

func (m *MockListings) MyRequests(ctx context.Context, actor listing.Actor) ([]models.TutorRequest, error) {
	args := m.Called(actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TutorRequest), args.Error(1)
}

func (m *MockListings) PublicRequests(ctx context.Context) ([]models.TutorRequest, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TutorRequest), args.Error(1)
}

func (m *MockListings) Filter(ctx context.Context, q *dto.FilterQuery) (interface{}, error) {
	args := m.Called(q)
	return args.Get(0), args.Error(1)
}

// MockMessages is a testify mock of message.Service.
type MockMessages struct{ mock.Mock }

func (m *MockMessages) Send(ctx context.Context, senderID, receiverID uint, content, channel string) (*models.Message, error) {
	args := m.Called(senderID, receiverID, content, channel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockMessages) Chat(ctx context.Context, userID, otherID uint) ([]models.Message, error) {
	args := m.Called(userID, otherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockMessages) Conversations(ctx context.Context, userID uint) ([]models.Conversation, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Conversation), args.Error(1)
}
