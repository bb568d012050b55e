package main

import (
	"dormops-backend/internal/auth"
	"dormops-backend/internal/model"
)

func (cli *commandLine) resetPassword(email, pwd string) error {
	var user model.User
	if err := cli.store.DB().Where("email = ?", email).First(&user).Error; err != nil {
		return err
	}
	hash, err := auth.HashPassword(pwd)
	if err != nil {
		return err
	}
	return cli.store.DB().Model(&user).Update("password_hash", hash).Error
}
