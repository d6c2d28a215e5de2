package redis

import (
	"context"

	"github.com/flowforge/flowforge/model"
	"github.com/flowforge/flowforge/persistence"
	"github.com/flowforge/flowforge/util"
	rd "github.com/go-redis/redis/v9"
	"github.com/pkg/errors"
)

var _ persistence.ExecutionDao = new(redisExecutionDao)

const EXECUTION string = "EXECUTION"
const EXECUTION_BY_WF string = "EXECUTION_BY_WF"

type redisExecutionDao struct {
	baseDao
	encoderDecoder util.EncoderDecoder[model.Execution]
}

func NewRedisExecutionDao(conf Config) *redisExecutionDao {
	return &redisExecutionDao{
		baseDao:        *newBaseDao(conf),
		encoderDecoder: util.NewJsonEncoderDecoder[model.Execution](),
	}
}

func (red *redisExecutionDao) Save(execution *model.Execution) error {
	ctx := context.Background()
	data, err := red.encoderDecoder.Encode(*execution)
	if err != nil {
		return err
	}
	key := red.getNamespaceKey(EXECUTION, execution.Id)
	if err := red.redisClient.Set(ctx, key, data, 0).Err(); err != nil {
		return errors.WithMessagef(err, "error saving execution %s", execution.Id)
	}
	listKey := red.getNamespaceKey(EXECUTION_BY_WF, execution.WorkflowId)
	return red.redisClient.SAdd(ctx, listKey, execution.Id).Err()
}

func (red *redisExecutionDao) Get(id string) (*model.Execution, error) {
	ctx := context.Background()
	val, err := red.redisClient.Get(ctx, red.getNamespaceKey(EXECUTION, id)).Result()
	if err == rd.Nil {
		return nil, persistence.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return red.encoderDecoder.Decode([]byte(val))
}

func (red *redisExecutionDao) GetByWorkflow(workflowId string, filter model.ExecutionFilter) ([]*model.Execution, error) {
	ctx := context.Background()
	ids, err := red.redisClient.SMembers(ctx, red.getNamespaceKey(EXECUTION_BY_WF, workflowId)).Result()
	if err != nil {
		return nil, err
	}
	executions := make([]*model.Execution, 0, len(ids))
	for _, id := range ids {
		ex, err := red.Get(id)
		if err == persistence.ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		if filter.Matches(ex) {
			executions = append(executions, ex)
		}
	}
	return executions, nil
}
