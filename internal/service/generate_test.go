package service

import (
	"context"
	"errors"
	"testing"

	"github.com/mcg-platform/componentgen/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestRouter(p llm.Provider) *llm.Router {
	router := llm.NewRouter("mock")
	router.RegisterProvider(p)
	return router
}

func TestComponentService_Generate(t *testing.T) {
	provider := new(MockProvider)
	provider.On("Name").Return("mock")
	provider.On("IsConfigured").Return(true)
	provider.On("GenerateComponent", mock.Anything, "A blue button", "").Return(&llm.Response{
		Component: llm.Component{
			JSX: "function Button() { return <button className=\"bg-blue-500\" />; }\nrender(<Button />);",
			CSS: "",
		},
		Model: "mock-model",
	}, nil)

	svc := NewComponentService(newTestRouter(provider))

	resp, err := svc.Generate(context.Background(), "A blue button", "", "")
	require.NoError(t, err)
	assert.Contains(t, resp.Component.JSX, "render(")
	assert.Equal(t, "mock-model", resp.Model)
}

func TestComponentService_Generate_RejectsExport(t *testing.T) {
	provider := new(MockProvider)
	provider.On("Name").Return("mock")
	provider.On("IsConfigured").Return(true)
	provider.On("GenerateComponent", mock.Anything, "A card", "").Return(&llm.Response{
		Component: llm.Component{
			JSX: "export default function Card() {}\nrender(<Card />);",
		},
	}, nil)

	svc := NewComponentService(newTestRouter(provider))

	_, err := svc.Generate(context.Background(), "A card", "", "")
	require.Error(t, err)

	var outErr *llm.OutputError
	assert.True(t, errors.As(err, &outErr))
}

func TestComponentService_Generate_RejectsMissingRender(t *testing.T) {
	provider := new(MockProvider)
	provider.On("Name").Return("mock")
	provider.On("IsConfigured").Return(true)
	provider.On("GenerateComponent", mock.Anything, "A card", "").Return(&llm.Response{
		Component: llm.Component{JSX: "function Card() { return <div />; }"},
	}, nil)

	svc := NewComponentService(newTestRouter(provider))

	_, err := svc.Generate(context.Background(), "A card", "", "")
	require.Error(t, err)

	var outErr *llm.OutputError
	assert.True(t, errors.As(err, &outErr))
}

func TestComponentService_Generate_UnknownProvider(t *testing.T) {
	provider := new(MockProvider)
	provider.On("Name").Return("mock")

	svc := NewComponentService(newTestRouter(provider))

	_, err := svc.Generate(context.Background(), "A card", "nope", "")
	assert.Error(t, err)
}

func TestComponentService_Generate_ProviderError(t *testing.T) {
	provider := new(MockProvider)
	provider.On("Name").Return("mock")
	provider.On("IsConfigured").Return(true)
	provider.On("GenerateComponent", mock.Anything, "A card", "").
		Return(nil, errors.New("upstream timeout"))

	svc := NewComponentService(newTestRouter(provider))

	_, err := svc.Generate(context.Background(), "A card", "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream timeout")
}
