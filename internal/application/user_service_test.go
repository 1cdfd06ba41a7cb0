package application_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"users-go-pgsql/internal/application"
	"users-go-pgsql/internal/domain/entity"
	"users-go-pgsql/internal/domain/repository"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetAll(ctx context.Context) ([]entity.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	args := m.Called(ctx, email, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string, excludeID int64) (bool, error) {
	args := m.Called(ctx, username, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, dto entity.CreateUserDTO) (*entity.User, error) {
	args := m.Called(ctx, dto)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, dto entity.UpdateUserDTO) (*entity.User, error) {
	args := m.Called(ctx, dto)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

var _ repository.UserRepository = (*MockUserRepository)(nil)

func strPtr(s string) *string { return &s }

func validCreateDTO() entity.CreateUserDTO {
	return entity.CreateUserDTO{
		Name:     "Ann Lee",
		Email:    "ann@example.com",
		Username: "annl",
	}
}

func requireValidation(t *testing.T, err error, wantMsg string) {
	t.Helper()
	var verr *entity.ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	require.Equal(t, wantMsg, verr.Message)
}

func TestGetAllUsers(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := application.NewService(mockRepo, nil)

	stored := []entity.User{
		{ID: 1, Name: "Ann Lee", Email: "ann@example.com", Username: "annl"},
		{ID: 2, Name: "Bob", Email: "bob@example.com", Username: "bobby"},
	}
	mockRepo.On("GetAll", mock.Anything).Return(stored, nil).Once()

	users, err := svc.GetAllUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	mockRepo.AssertExpectations(t)
}

func TestGetUserByID_InvalidID(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := application.NewService(mockRepo, nil)

	for _, id := range []int64{0, -5} {
		u, err := svc.GetUserByID(context.Background(), id)
		require.Nil(t, u)
		requireValidation(t, err, "Invalid user ID")
	}
	mockRepo.AssertNotCalled(t, "GetByID")
}

func TestGetUserByID_NotFoundIsNotAnError(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := application.NewService(mockRepo, nil)

	mockRepo.On("GetByID", mock.Anything, int64(42)).Return(nil, nil).Once()

	u, err := svc.GetUserByID(context.Background(), 42)
	require.NoError(t, err)
	require.Nil(t, u)
	mockRepo.AssertExpectations(t)
}

func TestCreateUser_Success(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := application.NewService(mockRepo, nil)

	dto := validCreateDTO()
	mockRepo.On("ExistsByEmail", mock.Anything, dto.Email, repository.NoExclusion).Return(false, nil).Once()
	mockRepo.On("ExistsByUsername", mock.Anything, dto.Username, repository.NoExclusion).Return(false, nil).Once()
	mockRepo.On("Create", mock.Anything, dto).
		Return(&entity.User{ID: 1, Name: dto.Name, Email: dto.Email, Username: dto.Username}, nil).Once()

	u, err := svc.CreateUser(context.Background(), dto)
	require.NoError(t, err)
	require.NotZero(t, u.ID)
	require.Equal(t, dto.Email, u.Email)
	mockRepo.AssertExpectations(t)
}

func TestCreateUser_RequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*entity.CreateUserDTO)
		wantMsg string
	}{
		{"empty name", func(d *entity.CreateUserDTO) { d.Name = "" }, "Name is required"},
		{"blank name", func(d *entity.CreateUserDTO) { d.Name = "   " }, "Name is required"},
		{"empty email", func(d *entity.CreateUserDTO) { d.Email = "" }, "Email is required"},
		{"blank email", func(d *entity.CreateUserDTO) { d.Email = " \t" }, "Email is required"},
		{"empty username", func(d *entity.CreateUserDTO) { d.Username = "" }, "Username is required"},
		{"blank username", func(d *entity.CreateUserDTO) { d.Username = "  " }, "Username is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			svc := application.NewService(mockRepo, nil)

			dto := validCreateDTO()
			tt.mutate(&dto)

			u, err := svc.CreateUser(context.Background(), dto)
			require.Nil(t, u)
			requireValidation(t, err, tt.wantMsg)

			mockRepo.AssertNotCalled(t, "ExistsByEmail")
			mockRepo.AssertNotCalled(t, "Create")
		})
	}
}

func TestCreateUser_EmailFormat(t *testing.T) {
	bad := []string{
		"plainaddress",
		"missing-domain@",
		"@missing-local.com",
		"no-tld@example",
		"one-letter-tld@example.c",
		"spaces in@example.com",
	}
	for _, email := range bad {
		t.Run(email, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			svc := application.NewService(mockRepo, nil)

			dto := validCreateDTO()
			dto.Email = email

			u, err := svc.CreateUser(context.Background(), dto)
			require.Nil(t, u)
			requireValidation(t, err, "Invalid email format")

			// malformed input never reaches storage, not even the probes
			mockRepo.AssertNotCalled(t, "ExistsByEmail")
			mockRepo.AssertNotCalled(t, "Create")
		})
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := application.NewService(mockRepo, nil)

	dto := validCreateDTO()
	mockRepo.On("ExistsByEmail", mock.Anything, dto.Email, repository.NoExclusion).Return(true, nil).Once()

	u, err := svc.CreateUser(context.Background(), dto)
	require.Nil(t, u)
	requireValidation(t, err, "User with this email already exists")

	mockRepo.AssertNotCalled(t, "ExistsByUsername")
	mockRepo.AssertNotCalled(t, "Create")
	mockRepo.AssertExpectations(t)
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := application.NewService(mockRepo, nil)

	dto := validCreateDTO()
	mockRepo.On("ExistsByEmail", mock.Anything, dto.Email, repository.NoExclusion).Return(false, nil).Once()
	mockRepo.On("ExistsByUsername", mock.Anything, dto.Username, repository.NoExclusion).Return(true, nil).Once()

	u, err := svc.CreateUser(context.Background(), dto)
	require.Nil(t, u)
	requireValidation(t, err, "User with this username already exists")

	mockRepo.AssertNotCalled(t, "Create")
	mockRepo.AssertExpectations(t)
}

func TestCreateUser_LengthBoundaries(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*entity.CreateUserDTO)
		wantMsg string // empty = accepted
	}{
		{"name at 255", func(d *entity.CreateUserDTO) { d.Name = strings.Repeat("a", 255) }, ""},
		{"name at 256", func(d *entity.CreateUserDTO) { d.Name = strings.Repeat("a", 256) }, "Name must be less than 255 characters"},
		// caps count characters, not bytes: 200 two-byte runes are 400 bytes but within the cap
		{"multibyte name at 200", func(d *entity.CreateUserDTO) { d.Name = strings.Repeat("é", 200) }, ""},
		{"multibyte name at 255", func(d *entity.CreateUserDTO) { d.Name = strings.Repeat("é", 255) }, ""},
		{"multibyte name at 256", func(d *entity.CreateUserDTO) { d.Name = strings.Repeat("é", 256) }, "Name must be less than 255 characters"},
		{"username at 150", func(d *entity.CreateUserDTO) { d.Username = strings.Repeat("u", 150) }, ""},
		{"username at 151", func(d *entity.CreateUserDTO) { d.Username = strings.Repeat("u", 151) }, "Username must be less than 150 characters"},
		{"phone at 20", func(d *entity.CreateUserDTO) { d.Phone = strPtr(strings.Repeat("5", 20)) }, ""},
		{"phone at 21", func(d *entity.CreateUserDTO) { d.Phone = strPtr(strings.Repeat("5", 21)) }, "Phone must be less than 20 characters"},
		{"website at 200", func(d *entity.CreateUserDTO) { d.Website = strPtr("https://" + strings.Repeat("w", 192)) }, ""},
		{"website at 201", func(d *entity.CreateUserDTO) { d.Website = strPtr("https://" + strings.Repeat("w", 193)) }, "Website must be less than 200 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			svc := application.NewService(mockRepo, nil)

			dto := validCreateDTO()
			tt.mutate(&dto)

			// length checks run after the uniqueness probes
			mockRepo.On("ExistsByEmail", mock.Anything, dto.Email, repository.NoExclusion).Return(false, nil)
			mockRepo.On("ExistsByUsername", mock.Anything, dto.Username, repository.NoExclusion).Return(false, nil)

			if tt.wantMsg == "" {
				mockRepo.On("Create", mock.Anything, dto).
					Return(&entity.User{ID: 7, Name: dto.Name, Email: dto.Email, Username: dto.Username,
						Phone: dto.Phone, Website: dto.Website}, nil).Once()
			}

			u, err := svc.CreateUser(context.Background(), dto)
			if tt.wantMsg == "" {
				require.NoError(t, err)
				require.NotNil(t, u)
			} else {
				require.Nil(t, u)
				requireValidation(t, err, tt.wantMsg)
				mockRepo.AssertNotCalled(t, "Create")
			}
		})
	}
}

func TestCreateUser_StorageConflictSurfaces(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := application.NewService(mockRepo, nil)

	dto := validCreateDTO()
	conflict := entity.NewConflictError("create", errors.New("duplicate key value"))
	mockRepo.On("ExistsByEmail", mock.Anything, dto.Email, repository.NoExclusion).Return(false, nil).Once()
	mockRepo.On("ExistsByUsername", mock.Anything, dto.Username, repository.NoExclusion).Return(false, nil).Once()
	mockRepo.On("Create", mock.Anything, dto).Return(nil, conflict).Once()

	u, err := svc.CreateUser(context.Background(), dto)
	require.Nil(t, u)

	var serr *entity.StorageError
	require.True(t, errors.As(err, &serr))
	require.True(t, serr.Conflict)
	mockRepo.AssertExpectations(t)
}

func TestUpdateUser_NonexistentReturnsAbsence(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := application.NewService(mockRepo, nil)

	mockRepo.On("GetByID", mock.Anything, int64(99)).Return(nil, nil).Once()

	dto := entity.UpdateUserDTO{ID: 99, Name: strPtr("New Name"), Email: strPtr("new@example.com")}
	u, err := svc.UpdateUser(context.Background(), dto)
	require.NoError(t, err)
	require.Nil(t, u)

	mockRepo.AssertNotCalled(t, "Update")
	mockRepo.AssertExpectations(t)
}

func TestUpdateUser_PhoneOnlyLeavesIdentityUntouched(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := application.NewService(mockRepo, nil)

	existing := &entity.User{ID: 1, Name: "Ann Lee", Email: "ann@example.com", Username: "annl"}
	mockRepo.On("GetByID", mock.Anything, int64(1)).Return(existing, nil).Once()

	dto := entity.UpdateUserDTO{ID: 1, Phone: strPtr("555-0100")}
	mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(d entity.UpdateUserDTO) bool {
		return d.ID == 1 && d.Name == nil && d.Email == nil && d.Username == nil &&
			d.Phone != nil && *d.Phone == "555-0100" && d.Website == nil
	})).Return(&entity.User{
		ID: 1, Name: "Ann Lee", Email: "ann@example.com", Username: "annl", Phone: strPtr("555-0100"),
	}, nil).Once()

	u, err := svc.UpdateUser(context.Background(), dto)
	require.NoError(t, err)
	require.Equal(t, "Ann Lee", u.Name)
	require.Equal(t, "ann@example.com", u.Email)
	require.Equal(t, "annl", u.Username)
	require.Equal(t, "555-0100", *u.Phone)

	// identity may not need uniqueness probes when untouched
	mockRepo.AssertNotCalled(t, "ExistsByEmail")
	mockRepo.AssertNotCalled(t, "ExistsByUsername")
	mockRepo.AssertExpectations(t)
}

func TestUpdateUser_InvalidEmailFormat(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := application.NewService(mockRepo, nil)

	existing := &entity.User{ID: 1, Name: "Ann Lee", Email: "ann@example.com", Username: "annl"}
	mockRepo.On("GetByID", mock.Anything, int64(1)).Return(existing, nil).Once()

	dto := entity.UpdateUserDTO{ID: 1, Email: strPtr("not-an-email")}
	u, err := svc.UpdateUser(context.Background(), dto)
	require.Nil(t, u)
	requireValidation(t, err, "Invalid email format")

	mockRepo.AssertNotCalled(t, "ExistsByEmail")
	mockRepo.AssertNotCalled(t, "Update")
}

func TestUpdateUser_DuplicateEmailExcludesSelf(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := application.NewService(mockRepo, nil)

	existing := &entity.User{ID: 3, Name: "Ann Lee", Email: "ann@example.com", Username: "annl"}
	mockRepo.On("GetByID", mock.Anything, int64(3)).Return(existing, nil).Once()
	// own id is excluded, so updating to the current value never conflicts
	mockRepo.On("ExistsByEmail", mock.Anything, "ann@example.com", int64(3)).Return(false, nil).Once()

	dto := entity.UpdateUserDTO{ID: 3, Email: strPtr("ann@example.com")}
	mockRepo.On("Update", mock.Anything, dto).Return(existing, nil).Once()

	u, err := svc.UpdateUser(context.Background(), dto)
	require.NoError(t, err)
	require.NotNil(t, u)
	mockRepo.AssertExpectations(t)
}

func TestUpdateUser_DuplicateEmailRejected(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := application.NewService(mockRepo, nil)

	existing := &entity.User{ID: 3, Name: "Ann Lee", Email: "ann@example.com", Username: "annl"}
	mockRepo.On("GetByID", mock.Anything, int64(3)).Return(existing, nil).Once()
	mockRepo.On("ExistsByEmail", mock.Anything, "bob@example.com", int64(3)).Return(true, nil).Once()

	dto := entity.UpdateUserDTO{ID: 3, Email: strPtr("bob@example.com")}
	u, err := svc.UpdateUser(context.Background(), dto)
	require.Nil(t, u)
	requireValidation(t, err, "User with this email already exists")

	mockRepo.AssertNotCalled(t, "Update")
	mockRepo.AssertExpectations(t)
}

// The duplicate probe runs before the length cap for usernames, so an
// over-long duplicate reports the duplicate, not the length.
func TestUpdateUser_UsernameDuplicateCheckedBeforeLength(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := application.NewService(mockRepo, nil)

	longName := strings.Repeat("u", 151)
	existing := &entity.User{ID: 5, Name: "Ann Lee", Email: "ann@example.com", Username: "annl"}
	mockRepo.On("GetByID", mock.Anything, int64(5)).Return(existing, nil).Once()
	mockRepo.On("ExistsByUsername", mock.Anything, longName, int64(5)).Return(true, nil).Once()

	dto := entity.UpdateUserDTO{ID: 5, Username: strPtr(longName)}
	u, err := svc.UpdateUser(context.Background(), dto)
	require.Nil(t, u)
	requireValidation(t, err, "User with this username already exists")
	mockRepo.AssertExpectations(t)
}

func TestUpdateUser_UsernameTooLong(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := application.NewService(mockRepo, nil)

	longName := strings.Repeat("u", 151)
	existing := &entity.User{ID: 5, Name: "Ann Lee", Email: "ann@example.com", Username: "annl"}
	mockRepo.On("GetByID", mock.Anything, int64(5)).Return(existing, nil).Once()
	mockRepo.On("ExistsByUsername", mock.Anything, longName, int64(5)).Return(false, nil).Once()

	dto := entity.UpdateUserDTO{ID: 5, Username: strPtr(longName)}
	u, err := svc.UpdateUser(context.Background(), dto)
	require.Nil(t, u)
	requireValidation(t, err, "Username must be less than 150 characters")

	mockRepo.AssertNotCalled(t, "Update")
	mockRepo.AssertExpectations(t)
}

func TestUpdateUser_MultibyteNameWithinCap(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := application.NewService(mockRepo, nil)

	name := strings.Repeat("é", 200)
	existing := &entity.User{ID: 6, Name: "Ann Lee", Email: "ann@example.com", Username: "annl"}
	mockRepo.On("GetByID", mock.Anything, int64(6)).Return(existing, nil).Once()

	dto := entity.UpdateUserDTO{ID: 6, Name: strPtr(name)}
	mockRepo.On("Update", mock.Anything, dto).Return(&entity.User{
		ID: 6, Name: name, Email: "ann@example.com", Username: "annl",
	}, nil).Once()

	u, err := svc.UpdateUser(context.Background(), dto)
	require.NoError(t, err)
	require.Equal(t, name, u.Name)
	mockRepo.AssertExpectations(t)
}

func TestDeleteUser_InvalidID(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := application.NewService(mockRepo, nil)

	for _, id := range []int64{0, -1} {
		deleted, err := svc.DeleteUser(context.Background(), id)
		require.False(t, deleted)
		requireValidation(t, err, "Invalid user ID")
	}
	mockRepo.AssertNotCalled(t, "GetByID")
	mockRepo.AssertNotCalled(t, "Delete")
}

func TestDeleteUser_MissingIsIdempotentSignal(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := application.NewService(mockRepo, nil)

	mockRepo.On("GetByID", mock.Anything, int64(8)).Return(nil, nil).Twice()

	// deleting an already-deleted id keeps returning false, never errors
	for i := 0; i < 2; i++ {
		deleted, err := svc.DeleteUser(context.Background(), 8)
		require.NoError(t, err)
		require.False(t, deleted)
	}
	mockRepo.AssertNotCalled(t, "Delete")
	mockRepo.AssertExpectations(t)
}

func TestDeleteUser_Success(t *testing.T) {
	mockRepo := new(MockUserRepository)
	svc := application.NewService(mockRepo, nil)

	existing := &entity.User{ID: 8, Name: "Ann Lee", Email: "ann@example.com", Username: "annl"}
	mockRepo.On("GetByID", mock.Anything, int64(8)).Return(existing, nil).Once()
	mockRepo.On("Delete", mock.Anything, int64(8)).Return(true, nil).Once()

	deleted, err := svc.DeleteUser(context.Background(), 8)
	require.NoError(t, err)
	require.True(t, deleted)
	mockRepo.AssertExpectations(t)
}
