package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shashankgaur/task-manager-api/internal/auth"
	"github.com/shashankgaur/task-manager-api/internal/email"
	"github.com/shashankgaur/task-manager-api/internal/models"
	"github.com/shashankgaur/task-manager-api/internal/repository"
	"github.com/shashankgaur/task-manager-api/internal/validation"
)

type userTestEnv struct {
	db          *gorm.DB
	userService *UserService
	tokenRepo   repository.SessionTokenRepository
	taskRepo    repository.TaskRepository
}

func setupUserTestEnv(t *testing.T) userTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.SessionToken{},
		&models.Task{},
	)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewSessionTokenRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	manager := auth.NewTokenManager("test-secret")
	userService := NewUserService(userRepo, tokenRepo, manager, email.NoopNotifier{})

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return userTestEnv{
		db:          db,
		userService: userService,
		tokenRepo:   tokenRepo,
		taskRepo:    taskRepo,
	}
}

func validCreateInput() CreateUserInput {
	return CreateUserInput{
		Name:     "Shashank",
		Email:    "shashank@example.com",
		Password: "supersecret",
		Age:      27,
	}
}

func TestUserService_Create(t *testing.T) {
	env := setupUserTestEnv(t)

	user, token, err := env.userService.Create(validCreateInput())
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	require.NotEmpty(t, token)
	require.NotEqual(t, "supersecret", user.PasswordHash)

	// the issued token is registered as an active session
	active, err := env.tokenRepo.Exists(user.ID, token)
	require.NoError(t, err)
	require.True(t, active)
}

func TestUserService_Create_NormalizesEmail(t *testing.T) {
	env := setupUserTestEnv(t)

	input := validCreateInput()
	input.Email = "  Shashank@Example.COM "
	user, _, err := env.userService.Create(input)
	require.NoError(t, err)
	require.Equal(t, "shashank@example.com", user.Email)
}

func TestUserService_Create_RejectsInvalidInput(t *testing.T) {
	env := setupUserTestEnv(t)

	cases := []struct {
		name   string
		mutate func(*CreateUserInput)
		field  string
	}{
		{"empty name", func(in *CreateUserInput) { in.Name = "  " }, "name"},
		{"bad email", func(in *CreateUserInput) { in.Email = "not-an-email" }, "email"},
		{"short password", func(in *CreateUserInput) { in.Password = "short" }, "password"},
		{"password substring", func(in *CreateUserInput) { in.Password = "MyPassword1" }, "password"},
		{"negative age", func(in *CreateUserInput) { in.Age = -3 }, "age"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validCreateInput()
			tc.mutate(&input)

			_, _, err := env.userService.Create(input)
			var fieldErr *validation.FieldError
			require.ErrorAs(t, err, &fieldErr)
			require.Equal(t, tc.field, fieldErr.Field)
		})
	}
}

func TestUserService_Create_EmailUniqueIgnoringCase(t *testing.T) {
	env := setupUserTestEnv(t)

	input := validCreateInput()
	input.Email = "A@x.com"
	_, _, err := env.userService.Create(input)
	require.NoError(t, err)

	second := validCreateInput()
	second.Email = "a@x.com"
	_, _, err = env.userService.Create(second)
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestUserService_Login(t *testing.T) {
	env := setupUserTestEnv(t)

	created, firstToken, err := env.userService.Create(validCreateInput())
	require.NoError(t, err)

	user, secondToken, err := env.userService.Login(LoginInput{
		Email:    "shashank@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)
	require.Equal(t, created.ID, user.ID)
	require.NotEqual(t, firstToken, secondToken)

	// concurrent logins accumulate; the signup token is still active
	for _, token := range []string{firstToken, secondToken} {
		active, err := env.tokenRepo.Exists(user.ID, token)
		require.NoError(t, err)
		require.True(t, active)
	}
}

func TestUserService_Login_GenericFailure(t *testing.T) {
	env := setupUserTestEnv(t)

	_, _, err := env.userService.Create(validCreateInput())
	require.NoError(t, err)

	_, _, wrongPassword := env.userService.Login(LoginInput{
		Email:    "shashank@example.com",
		Password: "not-the-one",
	})
	_, _, unknownEmail := env.userService.Login(LoginInput{
		Email:    "nobody@example.com",
		Password: "supersecret",
	})

	// identical failure whether the email or the password was wrong
	require.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	require.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	require.Equal(t, wrongPassword, unknownEmail)
}

func TestUserService_Logout_OnlyRevokesCurrentSession(t *testing.T) {
	env := setupUserTestEnv(t)

	user, firstToken, err := env.userService.Create(validCreateInput())
	require.NoError(t, err)
	_, secondToken, err := env.userService.Login(LoginInput{
		Email:    "shashank@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	require.NoError(t, env.userService.Logout(user, firstToken))

	active, err := env.tokenRepo.Exists(user.ID, firstToken)
	require.NoError(t, err)
	require.False(t, active)

	active, err = env.tokenRepo.Exists(user.ID, secondToken)
	require.NoError(t, err)
	require.True(t, active)
}

func TestUserService_LogoutAll(t *testing.T) {
	env := setupUserTestEnv(t)

	user, firstToken, err := env.userService.Create(validCreateInput())
	require.NoError(t, err)
	_, secondToken, err := env.userService.Login(LoginInput{
		Email:    "shashank@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	require.NoError(t, env.userService.LogoutAll(user))

	for _, token := range []string{firstToken, secondToken} {
		active, err := env.tokenRepo.Exists(user.ID, token)
		require.NoError(t, err)
		require.False(t, active)
	}
}

func TestUserService_Update_RehashesOnlyChangedPassword(t *testing.T) {
	env := setupUserTestEnv(t)

	user, _, err := env.userService.Create(validCreateInput())
	require.NoError(t, err)
	originalHash := user.PasswordHash

	name := "Renamed"
	require.NoError(t, env.userService.Update(user, UpdateUserInput{Name: &name}))
	require.Equal(t, "Renamed", user.Name)
	require.Equal(t, originalHash, user.PasswordHash)

	password := "evenmoresecret"
	require.NoError(t, env.userService.Update(user, UpdateUserInput{Password: &password}))
	require.NotEqual(t, originalHash, user.PasswordHash)

	// the new password works for login
	_, _, err = env.userService.Login(LoginInput{
		Email:    "shashank@example.com",
		Password: "evenmoresecret",
	})
	require.NoError(t, err)
}

func TestUserService_Update_RejectsTakenEmail(t *testing.T) {
	env := setupUserTestEnv(t)

	_, _, err := env.userService.Create(validCreateInput())
	require.NoError(t, err)

	other := validCreateInput()
	other.Email = "other@example.com"
	user, _, err := env.userService.Create(other)
	require.NoError(t, err)

	taken := "Shashank@example.com"
	err = env.userService.Update(user, UpdateUserInput{Email: &taken})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestUserService_Delete_CascadesOwnedTasks(t *testing.T) {
	env := setupUserTestEnv(t)

	user, _, err := env.userService.Create(validCreateInput())
	require.NoError(t, err)

	other := validCreateInput()
	other.Email = "other@example.com"
	otherUser, _, err := env.userService.Create(other)
	require.NoError(t, err)

	for _, ownerID := range []uint64{user.ID, user.ID, otherUser.ID} {
		require.NoError(t, env.taskRepo.Create(&models.Task{
			Description: "errand",
			OwnerID:     ownerID,
		}))
	}

	require.NoError(t, env.userService.Delete(user))

	var users int64
	require.NoError(t, env.db.Model(&models.User{}).Where("id = ?", user.ID).Count(&users).Error)
	require.Zero(t, users)

	// the deleted user's tasks are gone, the other user's remain
	var ownedTasks int64
	require.NoError(t, env.db.Model(&models.Task{}).Where("owner_id = ?", user.ID).Count(&ownedTasks).Error)
	require.Zero(t, ownedTasks)

	var otherTasks int64
	require.NoError(t, env.db.Model(&models.Task{}).Where("owner_id = ?", otherUser.ID).Count(&otherTasks).Error)
	require.Equal(t, int64(1), otherTasks)

	// session tokens went with the account
	var tokens int64
	require.NoError(t, env.db.Model(&models.SessionToken{}).Where("user_id = ?", user.ID).Count(&tokens).Error)
	require.Zero(t, tokens)
}

func TestUserService_Delete_FailedCascadeLeavesUserIntact(t *testing.T) {
	env := setupUserTestEnv(t)

	user, token, err := env.userService.Create(validCreateInput())
	require.NoError(t, err)

	// make the task-deletion step of the transaction fail
	require.NoError(t, env.db.Migrator().DropTable(&models.Task{}))

	err = env.userService.Delete(user)
	require.ErrorIs(t, err, ErrFailedToDeleteUser)

	// the user row and their sessions survive the aborted delete
	var users int64
	require.NoError(t, env.db.Model(&models.User{}).Where("id = ?", user.ID).Count(&users).Error)
	require.Equal(t, int64(1), users)

	active, err := env.tokenRepo.Exists(user.ID, token)
	require.NoError(t, err)
	require.True(t, active)
}
