package resume

// skillVocabulary is matched case-insensitively against the resume text.
var skillVocabulary = []string{
	"Python", "SQL", "PySpark", "Spark", "Java", "Scala", "R",
	"JavaScript", "TypeScript", "Go", "Rust", "C++", "C#",
	"Airflow", "Luigi", "Prefect", "Dagster",
	"AWS", "GCP", "Azure", "S3", "EC2", "Lambda", "Glue", "Redshift",
	"BigQuery", "Dataflow", "Cloud Functions",
	"Snowflake", "Databricks", "dbt",
	"Kafka", "RabbitMQ", "Kinesis", "Pub/Sub",
	"Docker", "Kubernetes", "Terraform", "CI/CD",
	"PostgreSQL", "MySQL", "MongoDB", "Cassandra", "DynamoDB", "Redis",
	"Hadoop", "Hive", "MapReduce", "HDFS",
	"Tableau", "Power BI", "Looker", "Metabase",
	"Git", "GitHub", "GitLab", "Jira",
	"ETL", "ELT", "Data Warehouse", "Data Lake",
	"Machine Learning", "Deep Learning", "NLP", "TensorFlow", "PyTorch",
	"Pandas", "NumPy", "Scikit-learn", "Matplotlib",
	"REST", "GraphQL", "API", "Microservices",
	"Linux", "Shell", "Bash",
}

// toolVocabulary overlaps skillVocabulary on purpose: tools are reported separately.
var toolVocabulary = []string{
	"Airflow", "AWS S3", "Snowflake", "BigQuery", "Databricks",
	"Docker", "Kubernetes", "Terraform", "Jenkins", "GitHub Actions",
	"dbt", "Spark", "Kafka", "Tableau", "Power BI", "Looker",
	"Jupyter", "VS Code", "IntelliJ", "DataGrip",
	"Postman", "Swagger", "Grafana", "Prometheus",
	"Celery", "Redis", "Elasticsearch", "Nginx",
}

var certificationKeywords = []string{
	"certified", "certification", "certificate", "credential",
	"aws certified", "google cloud", "azure", "databricks",
	"snowflake", "confluent", "coursera", "udemy",
}
