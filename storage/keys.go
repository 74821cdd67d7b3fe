package storage

import "fmt"

var (
	electionPrefix             = []byte("e/")
	mediatorElectionPrefix     = []byte("me/")
	questionPrefix             = []byte("q/")
	registrationPrefix         = []byte("r/")
	encryptedLocationPrefix    = []byte("el/")
	electionCollectorPrefix    = []byte("ec/")
	commitmentPrefix           = []byte("cm/")
	cancellationPrefix         = []byte("cs/")
	orchestratorElectionPrefix = []byte("oe/")
	orchestratorQuestionPrefix = []byte("oq/")
)

func registrationKey(electionID, questionID, userID string) []byte {
	return []byte(electionID + "/" + questionID + "/" + userID)
}

func encryptedLocationKey(electionID, userID string) []byte {
	return []byte(electionID + "/" + userID)
}

func commitmentKey(electionID, questionID, userID string) []byte {
	return []byte(electionID + "/" + questionID + "/" + userID)
}

func cancellationKey(electionID, questionID string) []byte {
	return []byte(electionID + "/" + questionID)
}

func electionCollectorKey(electionID string, index int) []byte {
	return []byte(fmt.Sprintf("%s/%04d", electionID, index))
}
