package core

import "context"

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) GetUser(ctx context.Context, userID string) (User, error) {
	return s.store.GetUser(ctx, userID)
}

func (s *Service) ListUsers(ctx context.Context, role, search string, limit, offset int) ([]User, error) {
	return s.store.ListUsers(ctx, role, search, limit, offset)
}

func (s *Service) CreateUser(ctx context.Context, user User, passwordHash string) (string, error) {
	return s.store.CreateUser(ctx, user, passwordHash)
}

func (s *Service) UpdateUser(ctx context.Context, userID string, user User) error {
	return s.store.UpdateUser(ctx, userID, user)
}

func (s *Service) DeactivateUser(ctx context.Context, userID string) error {
	return s.store.DeactivateUser(ctx, userID)
}

func (s *Service) UserExists(ctx context.Context, userID string) (bool, error) {
	return s.store.UserExists(ctx, userID)
}

func (s *Service) GetDepartment(ctx context.Context, departmentID string) (Department, error) {
	return s.store.GetDepartment(ctx, departmentID)
}

func (s *Service) ListDepartments(ctx context.Context) ([]Department, error) {
	return s.store.ListDepartments(ctx)
}

func (s *Service) CreateDepartment(ctx context.Context, dept Department) (string, error) {
	return s.store.CreateDepartment(ctx, dept)
}

func (s *Service) UpdateDepartment(ctx context.Context, departmentID string, dept Department) error {
	return s.store.UpdateDepartment(ctx, departmentID, dept)
}

func (s *Service) DeleteDepartment(ctx context.Context, departmentID string) error {
	return s.store.DeleteDepartment(ctx, departmentID)
}

func (s *Service) GetCareerPath(ctx context.Context, pathID string) (CareerPath, error) {
	return s.store.GetCareerPath(ctx, pathID)
}

func (s *Service) ListCareerPaths(ctx context.Context) ([]CareerPath, error) {
	return s.store.ListCareerPaths(ctx)
}

func (s *Service) CreateCareerPath(ctx context.Context, path CareerPath) (string, error) {
	return s.store.CreateCareerPath(ctx, path)
}

func (s *Service) UpdateCareerPath(ctx context.Context, pathID string, path CareerPath) error {
	return s.store.UpdateCareerPath(ctx, pathID, path)
}

func (s *Service) DeleteCareerPath(ctx context.Context, pathID string) error {
	return s.store.DeleteCareerPath(ctx, pathID)
}

func (s *Service) GetEmployee(ctx context.Context, employeeID string) (Employee, error) {
	return s.store.GetEmployee(ctx, employeeID)
}

func (s *Service) GetEmployeeByUser(ctx context.Context, userID string) (Employee, error) {
	return s.store.GetEmployeeByUser(ctx, userID)
}

func (s *Service) ListEmployees(ctx context.Context, filter EmployeeFilter, limit, offset int) ([]Employee, int, error) {
	return s.store.ListEmployees(ctx, filter, limit, offset)
}

func (s *Service) CreateEmployee(ctx context.Context, emp Employee) (string, error) {
	return s.store.CreateEmployee(ctx, emp)
}

func (s *Service) CreateEmployeeWithUser(ctx context.Context, emp Employee, passwordHash string) (string, string, error) {
	return s.store.CreateEmployeeWithUser(ctx, emp, passwordHash)
}

func (s *Service) UpdateEmployee(ctx context.Context, employeeID string, emp Employee) error {
	return s.store.UpdateEmployee(ctx, employeeID, emp)
}

func (s *Service) DeactivateEmployee(ctx context.Context, employeeID string) error {
	return s.store.DeactivateEmployee(ctx, employeeID)
}

func (s *Service) EmployeeUserID(ctx context.Context, employeeID string) (string, error) {
	return s.store.EmployeeUserID(ctx, employeeID)
}

func (s *Service) EmployeeIDByUserID(ctx context.Context, userID string) (string, error) {
	return s.store.EmployeeIDByUserID(ctx, userID)
}
