package db

var SQLitePath = sqlitePath
