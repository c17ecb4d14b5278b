package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name PhaseConfigRepository --dir ../domain/tournament --output domain/tournament --outpkg tournamentmock --filename phase_config_repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name SnapshotRepository --dir ../domain/tournament --output domain/tournament --outpkg tournamentmock --filename snapshot_repository_mock.go
