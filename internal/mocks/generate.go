package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/staff --output domain/staff --outpkg staffmock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Session --dir ../domain/account --output domain/account --outpkg accountmock --filename session_mock.go
