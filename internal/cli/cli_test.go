package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"kiruna/internal/model"
	"kiruna/internal/service"
	serviceMocks "kiruna/internal/service/mocks"
)

type harness struct {
	rt       *Runtime
	users    *serviceMocks.MockUserService
	sh       *serviceMocks.MockStakeholderService
	types    *serviceMocks.MockDocumentTypeService
	released bool
	openErr  error
}

func newHarness() *harness {
	h := &harness{
		users: new(serviceMocks.MockUserService),
		sh:    new(serviceMocks.MockStakeholderService),
		types: new(serviceMocks.MockDocumentTypeService),
	}
	h.rt = &Runtime{Users: h.users, Stakeholders: h.sh, DocTypes: h.types}
	return h
}

func (h *harness) run(args ...string) (string, error) {
	open := func(ctx context.Context) (*Runtime, func(), error) {
		if h.openErr != nil {
			return nil, nil, h.openErr
		}
		return h.rt, func() { h.released = true }, nil
	}
	root := NewRootCmd(open)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := newHarness().run("version")
	require.NoError(t, err)
	assert.Contains(t, out, "kiruna-admin version dev")
}

func TestMigrateCmd(t *testing.T) {
	h := newHarness()
	calls := 0
	h.rt.Migrate = func(context.Context) error { calls++; return nil }

	out, err := h.run("migrate")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Contains(t, out, "schema is up to date")
	assert.True(t, h.released)

	h = newHarness()
	h.openErr = errors.New("db ping: connection refused")
	_, err = h.run("migrate")
	assert.EqualError(t, err, "db ping: connection refused")
}

func TestUserCreateCmd(t *testing.T) {
	args := []string{"user", "create", "--email", "anna@kiruna.se", "--password", "correct horse", "--name", "Anna", "--surname", "Berg"}

	t.Run("defaults to planner", func(t *testing.T) {
		h := newHarness()
		h.users.On("Create", mock.Anything, service.RegisterInput{
			Email: "anna@kiruna.se", Password: "correct horse", Name: "Anna", Surname: "Berg", Role: model.RolePlanner,
		}).Return(&model.User{ID: "u1", Email: "anna@kiruna.se", Role: model.RolePlanner}, nil).Once()

		out, err := h.run(args...)
		require.NoError(t, err)
		assert.Contains(t, out, "created user u1 (anna@kiruna.se, PLANNER)")
		h.users.AssertExpectations(t)
	})

	t.Run("unknown role", func(t *testing.T) {
		h := newHarness()
		_, err := h.run(append(args, "--role", "MAYOR")...)
		assert.EqualError(t, err, `unknown role "MAYOR"`)
		h.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("duplicate", func(t *testing.T) {
		h := newHarness()
		h.users.On("Create", mock.Anything, mock.Anything).Return(nil, service.ErrAlreadyExists).Once()

		_, err := h.run(append(args, "--role", "DEVELOPER")...)
		assert.EqualError(t, err, "an account with email anna@kiruna.se already exists")
	})

	t.Run("missing flag", func(t *testing.T) {
		_, err := newHarness().run("user", "create", "--email", "anna@kiruna.se")
		assert.Error(t, err)
	})
}

func TestSeedCmd(t *testing.T) {
	h := newHarness()
	h.sh.On("Create", mock.Anything, mock.Anything).Return(&model.Stakeholder{}, nil)
	h.types.On("Create", mock.Anything, mock.Anything).Return(&model.DocumentType{}, nil)

	out, err := h.run("seed")
	require.NoError(t, err)
	assert.Contains(t, out, "seeded 6 stakeholders and 8 document types")
}
