// internal/transport/grpcapi/client.go
package grpcapi

import (
	"context"
	"io"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/gurkanbulca/taskboard/internal/models"
	"github.com/gurkanbulca/taskboard/internal/repository"
	"github.com/gurkanbulca/taskboard/internal/service"
	"github.com/gurkanbulca/taskboard/internal/view"
)

var _ view.TaskSource = (*Client)(nil)

// Client calls both services and returns errors from the same taxonomy the
// in-process services use.
type Client struct {
	cc     grpc.ClientConnInterface
	closer io.Closer
	token  string
}

// Dial opens a plaintext connection to target
func Dial(target string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{cc: conn, closer: conn}, nil
}

// NewClient wraps an existing connection
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// WithToken returns a client that sends the access token on every call
func (c *Client) WithToken(accessToken string) *Client {
	clone := *c
	clone.token = accessToken
	return &clone
}

// Close releases the connection when the client owns it
func (c *Client) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}

func (c *Client) invoke(ctx context.Context, method string, in, out proto.Message, notFound error) error {
	if c.token != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+c.token)
	}
	if err := c.cc.Invoke(ctx, method, in, out); err != nil {
		return fromStatus(err, notFound)
	}
	return nil
}

func (c *Client) call(ctx context.Context, method string, req any, out any, notFound error) error {
	in, err := encodeMessage(req)
	if err != nil {
		return err
	}
	resp := &structpb.Struct{}
	if err := c.invoke(ctx, method, in, resp, notFound); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decodeMessage(resp, out)
}

func (c *Client) ListTasks(ctx context.Context) ([]*models.Task, error) {
	resp := &structpb.Struct{}
	if err := c.invoke(ctx, TaskService_ListTasks_FullMethodName, &emptypb.Empty{}, resp, repository.ErrTaskNotFound); err != nil {
		return nil, err
	}
	var list taskList
	if err := decodeMessage(resp, &list); err != nil {
		return nil, err
	}
	return list.Tasks, nil
}

func (c *Client) GetTask(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	if err := c.call(ctx, TaskService_GetTask_FullMethodName, idRequest{ID: id}, &task, repository.ErrTaskNotFound); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) CreateTask(ctx context.Context, in models.TaskInput) (*models.Task, error) {
	var task models.Task
	if err := c.call(ctx, TaskService_CreateTask_FullMethodName, in, &task, repository.ErrTaskNotFound); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) UpdateTask(ctx context.Context, id string, in models.TaskInput) (*models.Task, error) {
	req, err := encodeMessage(in)
	if err != nil {
		return nil, err
	}
	req.Fields["id"] = structpb.NewStringValue(id)

	resp := &structpb.Struct{}
	if err := c.invoke(ctx, TaskService_UpdateTask_FullMethodName, req, resp, repository.ErrTaskNotFound); err != nil {
		return nil, err
	}
	var task models.Task
	if err := decodeMessage(resp, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) UpdateTaskStatus(ctx context.Context, id string, status models.Status) (*models.Task, error) {
	var task models.Task
	req := statusRequest{ID: id, Status: string(status)}
	if err := c.call(ctx, TaskService_UpdateTaskStatus_FullMethodName, req, &task, repository.ErrTaskNotFound); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	in, err := encodeMessage(idRequest{ID: id})
	if err != nil {
		return err
	}
	return c.invoke(ctx, TaskService_DeleteTask_FullMethodName, in, &emptypb.Empty{}, repository.ErrTaskNotFound)
}

func (c *Client) SignUp(ctx context.Context, in service.SignUpInput) (*models.User, error) {
	var user models.User
	if err := c.call(ctx, AuthService_SignUp_FullMethodName, in, &user, repository.ErrUserNotFound); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*service.Session, error) {
	var session service.Session
	req := signInRequest{Email: email, Password: password}
	if err := c.call(ctx, AuthService_SignIn_FullMethodName, req, &session, repository.ErrUserNotFound); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (*service.Session, error) {
	var session service.Session
	req := refreshRequest{RefreshToken: refreshToken}
	if err := c.call(ctx, AuthService_Refresh_FullMethodName, req, &session, repository.ErrUserNotFound); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) SignOut(ctx context.Context, refreshToken string) error {
	in, err := encodeMessage(refreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return err
	}
	return c.invoke(ctx, AuthService_SignOut_FullMethodName, in, &emptypb.Empty{}, repository.ErrUserNotFound)
}

// Me returns the signed-in user
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	resp := &structpb.Struct{}
	if err := c.invoke(ctx, AuthService_GetMe_FullMethodName, &emptypb.Empty{}, resp, repository.ErrUserNotFound); err != nil {
		return nil, err
	}
	var user models.User
	if err := decodeMessage(resp, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
