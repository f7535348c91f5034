package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/checkin --output domain/checkin --outpkg checkinmock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/broadcast --output domain/broadcast --outpkg broadcastmock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/chat --output domain/chat --outpkg chatmock --filename repository_mock.go
