package redis

import (
	"context"

	"github.com/flowforge/flowforge/metadata"
	"github.com/flowforge/flowforge/model"
	"github.com/flowforge/flowforge/persistence"
	"github.com/flowforge/flowforge/util"
	rd "github.com/go-redis/redis/v9"
	"github.com/pkg/errors"
)

var _ metadata.MetadataStorage = new(redisWorkflowDao)

const WORKFLOW_DEF string = "WF_DEF"

type redisWorkflowDao struct {
	baseDao
	encoderDecoder util.EncoderDecoder[model.Workflow]
}

func NewRedisWorkflowDao(conf Config) *redisWorkflowDao {
	return &redisWorkflowDao{
		baseDao:        *newBaseDao(conf),
		encoderDecoder: util.NewJsonEncoderDecoder[model.Workflow](),
	}
}

func (rfd *redisWorkflowDao) Save(wf model.Workflow) error {
	key := rfd.getNamespaceKey(WORKFLOW_DEF, wf.Id)
	ctx := context.Background()
	data, err := rfd.encoderDecoder.Encode(wf)
	if err != nil {
		return err
	}
	if err := rfd.redisClient.Set(ctx, key, data, 0).Err(); err != nil {
		return errors.WithMessagef(err, "error saving workflow %s", wf.Id)
	}
	return rfd.redisClient.SAdd(ctx, rfd.getNamespaceKey(WORKFLOW_DEF, "all"), wf.Id).Err()
}

func (rfd *redisWorkflowDao) Delete(id string) error {
	ctx := context.Background()
	if err := rfd.redisClient.Del(ctx, rfd.getNamespaceKey(WORKFLOW_DEF, id)).Err(); err != nil {
		return err
	}
	return rfd.redisClient.SRem(ctx, rfd.getNamespaceKey(WORKFLOW_DEF, "all"), id).Err()
}

func (rfd *redisWorkflowDao) Get(id string) (*model.Workflow, error) {
	key := rfd.getNamespaceKey(WORKFLOW_DEF, id)
	ctx := context.Background()
	val, err := rfd.redisClient.Get(ctx, key).Result()
	if err == rd.Nil {
		return nil, persistence.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	wf, err := rfd.encoderDecoder.Decode([]byte(val))
	if err != nil {
		return nil, err
	}
	return wf, nil
}

func (rfd *redisWorkflowDao) GetAll() ([]*model.Workflow, error) {
	ctx := context.Background()
	ids, err := rfd.redisClient.SMembers(ctx, rfd.getNamespaceKey(WORKFLOW_DEF, "all")).Result()
	if err != nil {
		return nil, err
	}
	workflows := make([]*model.Workflow, 0, len(ids))
	for _, id := range ids {
		wf, err := rfd.Get(id)
		if err == persistence.ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		workflows = append(workflows, wf)
	}
	return workflows, nil
}
