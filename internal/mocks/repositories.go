package mocks

import (
	"context"
	"time"

	"github.com/citypulse/citypulse/internal/domain"
	"github.com/citypulse/citypulse/internal/ports"
)

// MockUserRepository is an in-memory UserRepository. Every method can be
// overridden with its Func field; the defaults behave like a tiny store.
type MockUserRepository struct {
	Users map[uint]*domain.User

	SaveFunc           func(ctx context.Context, user *domain.User) error
	SaveProfileFunc    func(ctx context.Context, profile *domain.Profile) error
	FindByIDFunc       func(ctx context.Context, id uint) (*domain.User, error)
	FindByUsernameFunc func(ctx context.Context, username string) (*domain.User, error)
	FindAllFunc        func(ctx context.Context) ([]domain.User, error)
	FindByRoleFunc     func(ctx context.Context, role domain.Role) ([]domain.User, error)
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{Users: make(map[uint]*domain.User)}
}

func (m *MockUserRepository) Save(ctx context.Context, user *domain.User) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, user)
	}
	if user.ID == 0 {
		user.ID = uint(len(m.Users) + 1)
	}
	m.Users[user.ID] = user
	return nil
}

func (m *MockUserRepository) SaveProfile(ctx context.Context, profile *domain.Profile) error {
	if m.SaveProfileFunc != nil {
		return m.SaveProfileFunc(ctx, profile)
	}
	if u, ok := m.Users[profile.UserID]; ok {
		u.Profile = profile
	}
	return nil
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return m.Users[id], nil
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.FindByUsernameFunc != nil {
		return m.FindByUsernameFunc(ctx, username)
	}
	for _, u := range m.Users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (m *MockUserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx)
	}
	users := make([]domain.User, 0, len(m.Users))
	for _, u := range m.Users {
		users = append(users, *u)
	}
	return users, nil
}

func (m *MockUserRepository) FindByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	if m.FindByRoleFunc != nil {
		return m.FindByRoleFunc(ctx, role)
	}
	var users []domain.User
	for _, u := range m.Users {
		if u.RoleOrDefault() == role {
			users = append(users, *u)
		}
	}
	return users, nil
}

// MockComplaintRepository is an in-memory ComplaintRepository.
type MockComplaintRepository struct {
	Complaints map[uint]*domain.Complaint
	Statuses   []domain.ComplaintStatus

	SaveFunc          func(ctx context.Context, complaint *domain.Complaint) error
	FindByIDFunc      func(ctx context.Context, id uint) (*domain.Complaint, error)
	FindAllFunc       func(ctx context.Context) ([]domain.Complaint, error)
	FindByUserIDFunc  func(ctx context.Context, userID uint) ([]domain.Complaint, error)
	AppendStatusFunc  func(ctx context.Context, status *domain.ComplaintStatus) error
	StatusHistoryFunc func(ctx context.Context, complaintID uint) ([]domain.ComplaintStatus, error)
}

func NewMockComplaintRepository() *MockComplaintRepository {
	return &MockComplaintRepository{Complaints: make(map[uint]*domain.Complaint)}
}

func (m *MockComplaintRepository) Save(ctx context.Context, complaint *domain.Complaint) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, complaint)
	}
	if complaint.ID == 0 {
		complaint.ID = uint(len(m.Complaints) + 1)
	}
	m.Complaints[complaint.ID] = complaint
	return nil
}

func (m *MockComplaintRepository) FindByID(ctx context.Context, id uint) (*domain.Complaint, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return m.Complaints[id], nil
}

func (m *MockComplaintRepository) FindAll(ctx context.Context) ([]domain.Complaint, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx)
	}
	complaints := make([]domain.Complaint, 0, len(m.Complaints))
	for _, c := range m.Complaints {
		complaints = append(complaints, *c)
	}
	return complaints, nil
}

func (m *MockComplaintRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.Complaint, error) {
	if m.FindByUserIDFunc != nil {
		return m.FindByUserIDFunc(ctx, userID)
	}
	var complaints []domain.Complaint
	for _, c := range m.Complaints {
		if c.UserID == userID {
			complaints = append(complaints, *c)
		}
	}
	return complaints, nil
}

func (m *MockComplaintRepository) AppendStatus(ctx context.Context, status *domain.ComplaintStatus) error {
	if m.AppendStatusFunc != nil {
		return m.AppendStatusFunc(ctx, status)
	}
	status.ID = uint(len(m.Statuses) + 1)
	m.Statuses = append(m.Statuses, *status)
	return nil
}

func (m *MockComplaintRepository) StatusHistory(ctx context.Context, complaintID uint) ([]domain.ComplaintStatus, error) {
	if m.StatusHistoryFunc != nil {
		return m.StatusHistoryFunc(ctx, complaintID)
	}
	var history []domain.ComplaintStatus
	for _, s := range m.Statuses {
		if s.ComplaintID == complaintID {
			history = append(history, s)
		}
	}
	return history, nil
}

// MockWorkerRepository is an in-memory WorkerRepository.
type MockWorkerRepository struct {
	Workers map[uint]*domain.Worker
	Tasks   []domain.AssignedTask

	SaveFunc                func(ctx context.Context, worker *domain.Worker) error
	FindByIDFunc            func(ctx context.Context, id uint) (*domain.Worker, error)
	FindAllFunc             func(ctx context.Context) ([]domain.Worker, error)
	SaveTaskFunc            func(ctx context.Context, task *domain.AssignedTask) error
	FindAllTasksFunc        func(ctx context.Context) ([]domain.AssignedTask, error)
	FindTasksByWorkerIDFunc func(ctx context.Context, workerID uint) ([]domain.AssignedTask, error)
}

func NewMockWorkerRepository() *MockWorkerRepository {
	return &MockWorkerRepository{Workers: make(map[uint]*domain.Worker)}
}

func (m *MockWorkerRepository) Save(ctx context.Context, worker *domain.Worker) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, worker)
	}
	if worker.ID == 0 {
		worker.ID = uint(len(m.Workers) + 1)
	}
	m.Workers[worker.ID] = worker
	return nil
}

func (m *MockWorkerRepository) FindByID(ctx context.Context, id uint) (*domain.Worker, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return m.Workers[id], nil
}

func (m *MockWorkerRepository) FindAll(ctx context.Context) ([]domain.Worker, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx)
	}
	workers := make([]domain.Worker, 0, len(m.Workers))
	for _, w := range m.Workers {
		workers = append(workers, *w)
	}
	return workers, nil
}

func (m *MockWorkerRepository) SaveTask(ctx context.Context, task *domain.AssignedTask) error {
	if m.SaveTaskFunc != nil {
		return m.SaveTaskFunc(ctx, task)
	}
	task.ID = uint(len(m.Tasks) + 1)
	m.Tasks = append(m.Tasks, *task)
	return nil
}

func (m *MockWorkerRepository) FindAllTasks(ctx context.Context) ([]domain.AssignedTask, error) {
	if m.FindAllTasksFunc != nil {
		return m.FindAllTasksFunc(ctx)
	}
	return append([]domain.AssignedTask(nil), m.Tasks...), nil
}

func (m *MockWorkerRepository) FindTasksByWorkerID(ctx context.Context, workerID uint) ([]domain.AssignedTask, error) {
	if m.FindTasksByWorkerIDFunc != nil {
		return m.FindTasksByWorkerIDFunc(ctx, workerID)
	}
	var tasks []domain.AssignedTask
	for _, t := range m.Tasks {
		if t.WorkerID == workerID {
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}

// MockNotificationRepository is an in-memory NotificationRepository with
// the same ownership semantics as the real one.
type MockNotificationRepository struct {
	Notifications []*domain.Notification

	SaveFunc               func(ctx context.Context, n *domain.Notification) error
	FindByUserIDFunc       func(ctx context.Context, userID uint) ([]domain.Notification, error)
	FindUnreadByUserIDFunc func(ctx context.Context, userID uint) ([]domain.Notification, error)
	FindByUserIDSinceFunc  func(ctx context.Context, userID uint, since time.Time) ([]domain.Notification, error)
	MarkReadFunc           func(ctx context.Context, userID, id uint) error
	MarkAllReadFunc        func(ctx context.Context, userID uint) error
}

func NewMockNotificationRepository() *MockNotificationRepository {
	return &MockNotificationRepository{}
}

func (m *MockNotificationRepository) Save(ctx context.Context, n *domain.Notification) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, n)
	}
	n.ID = uint(len(m.Notifications) + 1)
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	m.Notifications = append(m.Notifications, n)
	return nil
}

func (m *MockNotificationRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.Notification, error) {
	if m.FindByUserIDFunc != nil {
		return m.FindByUserIDFunc(ctx, userID)
	}
	var out []domain.Notification
	for _, n := range m.Notifications {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (m *MockNotificationRepository) FindUnreadByUserID(ctx context.Context, userID uint) ([]domain.Notification, error) {
	if m.FindUnreadByUserIDFunc != nil {
		return m.FindUnreadByUserIDFunc(ctx, userID)
	}
	var out []domain.Notification
	for _, n := range m.Notifications {
		if n.UserID == userID && !n.IsRead {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (m *MockNotificationRepository) FindByUserIDSince(ctx context.Context, userID uint, since time.Time) ([]domain.Notification, error) {
	if m.FindByUserIDSinceFunc != nil {
		return m.FindByUserIDSinceFunc(ctx, userID, since)
	}
	var out []domain.Notification
	for _, n := range m.Notifications {
		if n.UserID == userID && !n.CreatedAt.Before(since) {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, userID, id uint) error {
	if m.MarkReadFunc != nil {
		return m.MarkReadFunc(ctx, userID, id)
	}
	for _, n := range m.Notifications {
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			return nil
		}
	}
	return ports.ErrNotFound
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, userID uint) error {
	if m.MarkAllReadFunc != nil {
		return m.MarkAllReadFunc(ctx, userID)
	}
	for _, n := range m.Notifications {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}
