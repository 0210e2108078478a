package storage

import (
	"TourCore/storage/database"
	"TourCore/storage/mq"
	"TourCore/storage/redis"
)

// Init 初始化 storage 层，顺序与 Close 相反
func Init() error {
	if err := database.Init(); err != nil {
		return err
	}

	if err := redis.Init(); err != nil {
		return err
	}

	if err := mq.Init(); err != nil {
		return err
	}

	return nil
}
