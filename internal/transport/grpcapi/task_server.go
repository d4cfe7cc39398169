// internal/transport/grpcapi/task_server.go
package grpcapi

import (
	"context"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/gurkanbulca/taskboard/internal/models"
	"github.com/gurkanbulca/taskboard/internal/view"
)

// TaskServer implements task.v1.TaskService on top of a task backend
type TaskServer struct {
	tasks view.TaskSource
}

// NewTaskServer creates the task RPC handlers
func NewTaskServer(tasks view.TaskSource) *TaskServer {
	return &TaskServer{tasks: tasks}
}

func (s *TaskServer) CreateTask(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in models.TaskInput
	if err := decodeMessage(req, &in); err != nil {
		return nil, toStatus(err)
	}

	task, err := s.tasks.CreateTask(ctx, in)
	if err != nil {
		return nil, toStatus(err)
	}
	return reply(task)
}

func (s *TaskServer) ListTasks(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	tasks, err := s.tasks.ListTasks(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	if tasks == nil {
		tasks = []*models.Task{}
	}
	return reply(taskList{Tasks: tasks})
}

func (s *TaskServer) GetTask(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := decodeID(req)
	if err != nil {
		return nil, toStatus(err)
	}

	task, err := s.tasks.GetTask(ctx, id)
	if err != nil {
		return nil, toStatus(err)
	}
	return reply(task)
}

// UpdateTask takes the task id alongside the input fields in one message
func (s *TaskServer) UpdateTask(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := decodeID(req)
	if err != nil {
		return nil, toStatus(err)
	}
	var in models.TaskInput
	if err := decodeMessage(req, &in); err != nil {
		return nil, toStatus(err)
	}

	task, err := s.tasks.UpdateTask(ctx, id, in)
	if err != nil {
		return nil, toStatus(err)
	}
	return reply(task)
}

func (s *TaskServer) UpdateTaskStatus(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in statusRequest
	if err := decodeMessage(req, &in); err != nil {
		return nil, toStatus(err)
	}
	if in.ID == "" {
		return nil, toStatus(models.NewValidationError("id", "id is required"))
	}

	task, err := s.tasks.UpdateTaskStatus(ctx, in.ID, models.Status(strings.TrimSpace(in.Status)))
	if err != nil {
		return nil, toStatus(err)
	}
	return reply(task)
}

func (s *TaskServer) DeleteTask(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	id, err := decodeID(req)
	if err != nil {
		return nil, toStatus(err)
	}

	if err := s.tasks.DeleteTask(ctx, id); err != nil {
		return nil, toStatus(err)
	}
	return &emptypb.Empty{}, nil
}

func reply(v any) (*structpb.Struct, error) {
	msg, err := encodeMessage(v)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}
	return msg, nil
}
